package models

import (
	"math"
	"time"

	json "github.com/goccy/go-json"
)

// CacheEntry is the on-disk layout of one cached creator dataset. The
// timestamp is epoch seconds with a fractional part and data holds the
// verbatim record payloads, so files written by older tooling that used
// the same layout stay readable.
type CacheEntry struct {
	Timestamp float64           `json:"timestamp"`
	Data      []json.RawMessage `json:"data"`
}

func NewCacheEntry(payloads []json.RawMessage, now time.Time) *CacheEntry {
	return &CacheEntry{
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Data:      payloads,
	}
}

// FetchedAt converts the stored epoch back into wall-clock time.
func (e *CacheEntry) FetchedAt() time.Time {
	sec, frac := math.Modf(e.Timestamp)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt())
}

// IsFresh reports whether the entry is still inside its TTL window.
func (e *CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return e.Age(now) <= ttl
}

func (e *CacheEntry) Records() ([]SupportRecord, error) {
	return DecodeSupportRecords(e.Data)
}

// CacheInfo describes a cache file without decoding it.
type CacheInfo struct {
	Creator      string    `json:"creator"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}
