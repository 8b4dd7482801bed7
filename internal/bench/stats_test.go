package bench

import (
	"testing"
	"time"
)

func TestPercentileExactIndexing(t *testing.T) {
	latencies := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
		40 * time.Millisecond,
		50 * time.Millisecond,
	}
	cases := []struct {
		p    float64
		want time.Duration
	}{
		{0.5, 30 * time.Millisecond},  // floor(5*0.5)=2
		{0.95, 50 * time.Millisecond}, // floor(5*0.95)=4
		{0.99, 50 * time.Millisecond}, // min(floor(5*0.99), 4)=4
		{0, 10 * time.Millisecond},
		{1, 50 * time.Millisecond}, // clamped to len-1
	}
	for _, tc := range cases {
		if got := Percentile(latencies, tc.p); got != tc.want {
			t.Errorf("Percentile(p=%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestPercentileEmpty(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil) = %v, want 0", got)
	}
}

func TestSampleSuccessClassification(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{200, true},
		{204, true},
		{301, true},
		{399, true},
		{400, false},
		{404, false},
		{500, false},
		{0, false}, // transport failure
	}
	for _, tc := range cases {
		sample := Sample{StatusCode: tc.status}
		if got := sample.Successful(); got != tc.want {
			t.Errorf("status %d: Successful() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestReduce(t *testing.T) {
	samples := []Sample{
		{Latency: 10 * time.Millisecond, StatusCode: 200},
		{Latency: 30 * time.Millisecond, StatusCode: 200},
		{Latency: 20 * time.Millisecond, StatusCode: 404},
		{Latency: 40 * time.Millisecond, StatusCode: 0},
	}
	stats := Reduce(samples, 2*time.Second)

	if stats.Requests != 4 {
		t.Errorf("Requests = %d, want 4", stats.Requests)
	}
	if stats.Successful != 2 || stats.Failed != 2 {
		t.Errorf("successful/failed = %d/%d, want 2/2", stats.Successful, stats.Failed)
	}
	if stats.RPS != 2 {
		t.Errorf("RPS = %v, want 2", stats.RPS)
	}
	if stats.MinLatency != 10*time.Millisecond || stats.MaxLatency != 40*time.Millisecond {
		t.Errorf("min/max = %v/%v", stats.MinLatency, stats.MaxLatency)
	}
	if stats.AvgLatency != 25*time.Millisecond {
		t.Errorf("avg = %v, want 25ms", stats.AvgLatency)
	}
	if stats.P50 != 30*time.Millisecond {
		t.Errorf("p50 = %v, want 30ms", stats.P50)
	}
	if stats.StatusCounts[200] != 2 || stats.StatusCounts[404] != 1 || stats.StatusCounts[0] != 1 {
		t.Errorf("unexpected status histogram: %v", stats.StatusCounts)
	}
}

func TestReduceEmpty(t *testing.T) {
	stats := Reduce(nil, time.Second)
	if stats.Requests != 0 || stats.RPS != 0 {
		t.Errorf("unexpected stats for empty samples: %+v", stats)
	}
}
