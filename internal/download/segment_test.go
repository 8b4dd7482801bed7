package download

import (
	"testing"

	"github.com/Daihongyi/surf/internal/client"
)

func TestPlanSegmentsEvenSplit(t *testing.T) {
	segments := planSegments("out.bin", 0, 1_000_000, 4)
	if len(segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if size := seg.EndByte - seg.StartByte + 1; size != 250_000 {
			t.Errorf("segment %d: size %d, want 250000", i, size)
		}
	}
	if segments[3].EndByte != 999_999 {
		t.Errorf("last segment end = %d, want 999999", segments[3].EndByte)
	}
}

func TestPlanSegmentsCoverRemainingRange(t *testing.T) {
	cases := []struct {
		name        string
		offset      int64
		total       int64
		connections int
	}{
		{"aligned", 0, 1 << 20, 4},
		{"remainder", 0, 1_000_003, 7},
		{"resume", 123_457, 10_000_000, 5},
		{"single", 0, 999, 1},
		{"tiny chunks", 0, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segments := planSegments("out.bin", tc.offset, tc.total, tc.connections)
			if len(segments) == 0 {
				t.Fatal("no segments planned")
			}
			if segments[0].StartByte != tc.offset {
				t.Errorf("first start = %d, want %d", segments[0].StartByte, tc.offset)
			}
			for i := 1; i < len(segments); i++ {
				if segments[i].StartByte != segments[i-1].EndByte+1 {
					t.Errorf("segment %d not contiguous: start %d after end %d", i, segments[i].StartByte, segments[i-1].EndByte)
				}
			}
			last := segments[len(segments)-1]
			if last.EndByte != tc.total-1 {
				t.Errorf("last end = %d, want %d", last.EndByte, tc.total-1)
			}
		})
	}
}

func TestChooseStrategy(t *testing.T) {
	big := multiDownloadThreshold * 2
	cases := []struct {
		name        string
		probe       client.ProbeResult
		offset      int64
		connections int
		want        strategy
	}{
		{"happy path", client.ProbeResult{TotalSize: big, SupportsRange: true}, 0, 4, strategyParallel},
		{"unknown size", client.ProbeResult{TotalSize: 0, SupportsRange: true}, 0, 4, strategySingle},
		{"no range support", client.ProbeResult{TotalSize: big, SupportsRange: false}, 0, 4, strategySingle},
		{"below threshold", client.ProbeResult{TotalSize: multiDownloadThreshold, SupportsRange: true}, 0, 4, strategySingle},
		{"one connection", client.ProbeResult{TotalSize: big, SupportsRange: true}, 0, 1, strategySingle},
		{"already complete", client.ProbeResult{TotalSize: big, SupportsRange: true}, big, 4, strategySingle},
		{"tail smaller than workers", client.ProbeResult{TotalSize: big, SupportsRange: true}, big - 2, 4, strategySingle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := chooseStrategy(tc.probe, tc.offset, tc.connections); got != tc.want {
				t.Errorf("chooseStrategy() = %v, want %v", got, tc.want)
			}
		})
	}
}
