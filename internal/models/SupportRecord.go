package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// SupportRecord is a single support purchase as returned by the Buy Me a
// Coffee coffees endpoint. Only the fields the analyzer consumes are mapped,
// the verbatim payload keeps everything else.
type SupportRecord struct {
	ID        int64  `json:"id"`
	CreatedOn string `json:"support_created_on"`
	Coffees   int    `json:"support_coffees"`
	Note      string `json:"support_note"`
	IsCreator bool   `json:"supporter_role_is_creator"`
}

func (r *SupportRecord) HasNote() bool {
	return r.Note != ""
}

// DecodeSupportRecords maps verbatim payloads onto typed records.
func DecodeSupportRecords(payloads []json.RawMessage) ([]SupportRecord, error) {
	records := make([]SupportRecord, 0, len(payloads))
	for i, payload := range payloads {
		var rec SupportRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type PageLinks struct {
	Next string `json:"next"`
}

// SupporterPage is one page of the paginated coffees endpoint.
type SupporterPage struct {
	Data  []json.RawMessage `json:"data"`
	Links PageLinks         `json:"links"`
}

func (p *SupporterPage) HasNext() bool {
	return p.Links.Next != ""
}
