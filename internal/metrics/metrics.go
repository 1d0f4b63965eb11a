package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests and conversions.
// This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	conversionsTotal = make(map[string]int64)
	convertedTotal   = make(map[string]int64)

	retentionJobsDeleted = make(map[string]int64)
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordConversion counts a finished conversion job by terminal status.
func RecordConversion(status string) {
	mu.Lock()
	defer mu.Unlock()
	conversionsTotal[status]++
}

// RecordConverted counts the entities produced by a successful
// conversion, by kind (items, blocks, recipes, textures).
func RecordConverted(items, blocks, recipes, textures int) {
	mu.Lock()
	defer mu.Unlock()
	convertedTotal["items"] += int64(items)
	convertedTotal["blocks"] += int64(blocks)
	convertedTotal["recipes"] += int64(recipes)
	convertedTotal["textures"] += int64(textures)
}

// RecordRetentionJobs increments the counter of jobs deleted by TTL for
// a given terminal status.
func RecordRetentionJobs(status string, deleted int64) {
	if deleted <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	retentionJobsDeleted[status] += deleted
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP transformar_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE transformar_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		v := requestsTotal[k]
		fmt.Fprintf(&b, "transformar_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, v)
	}

	b.WriteString("# HELP transformar_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE transformar_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP transformar_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE transformar_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		sum := latencyMsSum[k]
		cnt := latencyMsCount[k]
		fmt.Fprintf(&b, "transformar_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, sum)
		fmt.Fprintf(&b, "transformar_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, cnt)
	}

	// Conversion metrics
	b.WriteString("# HELP transformar_conversions_total Total finished conversion jobs by status\n")
	b.WriteString("# TYPE transformar_conversions_total counter\n")

	var statuses []string
	for s := range conversionsTotal {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&b, "transformar_conversions_total{status=\"%s\"} %d\n", s, conversionsTotal[s])
	}

	b.WriteString("# HELP transformar_converted_entities_total Total converted entities by kind\n")
	b.WriteString("# TYPE transformar_converted_entities_total counter\n")

	var kinds []string
	for k := range convertedTotal {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, "transformar_converted_entities_total{kind=\"%s\"} %d\n", k, convertedTotal[k])
	}

	// Retention metrics
	b.WriteString("# HELP transformar_retention_jobs_deleted_total Total jobs deleted by TTL\n")
	b.WriteString("# TYPE transformar_retention_jobs_deleted_total counter\n")

	var delStatuses []string
	for s := range retentionJobsDeleted {
		delStatuses = append(delStatuses, s)
	}
	sort.Strings(delStatuses)
	for _, s := range delStatuses {
		fmt.Fprintf(&b, "transformar_retention_jobs_deleted_total{status=\"%s\"} %d\n", s, retentionJobsDeleted[s])
	}

	return b.String()
}
