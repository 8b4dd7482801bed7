package download

import "testing"

func TestProgressBarWidth(t *testing.T) {
	cases := []struct {
		termWidth int
		want      int
	}{
		{80, 35},
		{120, 60},
		{200, 60}, // capped for very wide terminals
		{50, 10},
		{0, 10}, // degenerate width still renders something
	}
	for _, tc := range cases {
		if got := progressBarWidth(tc.termWidth); got != tc.want {
			t.Errorf("progressBarWidth(%d) = %d, want %d", tc.termWidth, got, tc.want)
		}
	}
}

func TestProgressCounter(t *testing.T) {
	prog := NewProgress(100, 1000)
	prog.Add(50)
	prog.Add(25)
	if got := prog.Downloaded(); got != 175 {
		t.Errorf("Downloaded() = %d, want 175", got)
	}
	if got := prog.Total(); got != 1000 {
		t.Errorf("Total() = %d, want 1000", got)
	}
}
