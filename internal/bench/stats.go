package bench

import (
	"sort"
	"time"
)

// Sample is the outcome of one benchmark request. StatusCode 0 means the
// request never produced a response (transport failure).
type Sample struct {
	Latency    time.Duration
	StatusCode int
}

// Successful reports whether the sample counts as a success: any status in
// [200, 400). Transport failures never do.
func (s Sample) Successful() bool {
	return s.StatusCode >= 200 && s.StatusCode < 400
}

// Stats is the aggregate of a completed run. It is derived once, after all
// samples are in, never from a partial set.
type Stats struct {
	Requests     int
	Successful   int
	Failed       int
	TotalTime    time.Duration
	RPS          float64
	MinLatency   time.Duration
	MaxLatency   time.Duration
	AvgLatency   time.Duration
	P50          time.Duration
	P95          time.Duration
	P99          time.Duration
	StatusCounts map[int]int
}

// Percentile returns the exact order statistic at p from sorted latencies:
// index floor(len*p) clamped to len-1, no interpolation.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Reduce collapses all samples into aggregate stats.
func Reduce(samples []Sample, totalTime time.Duration) Stats {
	stats := Stats{
		Requests:     len(samples),
		TotalTime:    totalTime,
		StatusCounts: make(map[int]int),
	}
	if len(samples) == 0 {
		return stats
	}
	if totalTime > 0 {
		stats.RPS = float64(len(samples)) / totalTime.Seconds()
	}

	latencies := make([]time.Duration, 0, len(samples))
	var totalLatency time.Duration
	for _, sample := range samples {
		latencies = append(latencies, sample.Latency)
		totalLatency += sample.Latency
		stats.StatusCounts[sample.StatusCode]++
		if sample.Successful() {
			stats.Successful++
		} else {
			stats.Failed++
		}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	stats.MinLatency = latencies[0]
	stats.MaxLatency = latencies[len(latencies)-1]
	stats.AvgLatency = totalLatency / time.Duration(len(latencies))
	stats.P50 = Percentile(latencies, 0.5)
	stats.P95 = Percentile(latencies, 0.95)
	stats.P99 = Percentile(latencies, 0.99)
	return stats
}
