package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Load driver for the bmac serve daemon. Point the daemon's
// BMAC_API_BASE_URL at a local fixture server before running this,
// otherwise every cache miss hits the real Buy Me a Coffee API.
const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var creators = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}

// Price variants fan the response cache out across keys.
var prices = []string{"", "3", "5", "7.5"}

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type opResult struct {
	endpoint string
	status   int
	latency  time.Duration
	failed   bool
}

type opStats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== bmac Load Test ===")
	fmt.Printf("Workers: %d | Duration per phase: %s | Creators: %d\n\n",
		numWorkers, testDuration, len(creators))

	fmt.Print("Waiting for server... ")
	for i := 0; ; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: every request computes or collapses into a shared fetch,
	// so this measures cold-path and singleflight behavior.
	fmt.Println("\n--- Phase 1: Warm-up (GET /stats across all creators) ---")
	runPhase(testDuration, func(rng *rand.Rand) opResult {
		return doStats(rng)
	})

	// Phase 2: realistic mix once the caches are hot.
	fmt.Println("\n--- Phase 2: Mixed read load ---")
	runPhase(testDuration, func(rng *rand.Rand) opResult {
		r := rng.Float64()
		switch {
		case r < 0.60:
			return doStats(rng)
		case r < 0.75:
			return doCreators()
		case r < 0.90:
			return doCacheInfo(rng)
		default:
			return doHealth()
		}
	})

	// Phase 3: cache churn, invalidations force recomputes under load.
	fmt.Println("\n--- Phase 3: Churn (5% DELETE /cache) ---")
	runPhase(testDuration, func(rng *rand.Rand) opResult {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doInvalidate(rng)
		case r < 0.80:
			return doStats(rng)
		case r < 0.90:
			return doCreators()
		default:
			return doHealth()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) opResult) {
	results := make(chan opResult, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	perEndpoint := make(map[string]*opStats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := perEndpoint[r.endpoint]
			if !ok {
				s = &opStats{}
				perEndpoint[r.endpoint] = s
			}
			s.count++
			if r.failed {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(perEndpoint, duration)
}

func printResults(perEndpoint map[string]*opStats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(perEndpoint))
	for ep := range perEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := perEndpoint[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doStats(rng *rand.Rand) opResult {
	creator := creators[rng.Intn(len(creators))]
	q := url.Values{"creator": {creator}}
	if price := prices[rng.Intn(len(prices))]; price != "" {
		q.Set("price", price)
	}
	return doGet("GET /stats", baseURL+"/stats?"+q.Encode())
}

func doCreators() opResult {
	return doGet("GET /creators", baseURL+"/creators")
}

func doCacheInfo(rng *rand.Rand) opResult {
	creator := creators[rng.Intn(len(creators))]
	return doGet("GET /cache", baseURL+"/cache?creator="+url.QueryEscape(creator))
}

func doHealth() opResult {
	return doGet("GET /health", baseURL+"/health")
}

func doGet(endpoint, target string) opResult {
	start := time.Now()
	resp, err := httpClient.Get(target)
	lat := time.Since(start)
	if err != nil {
		return opResult{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// /cache legitimately returns 404 for never-fetched creators.
	ok := resp.StatusCode == http.StatusOK ||
		(endpoint == "GET /cache" && resp.StatusCode == http.StatusNotFound)
	return opResult{endpoint, resp.StatusCode, lat, !ok}
}

func doInvalidate(rng *rand.Rand) opResult {
	creator := creators[rng.Intn(len(creators))]
	target := baseURL + "/cache?creator=" + url.QueryEscape(creator)
	req, err := http.NewRequest(http.MethodDelete, target, nil)
	if err != nil {
		return opResult{"DELETE /cache", 0, 0, true}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return opResult{"DELETE /cache", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return opResult{"DELETE /cache", resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
