package download

import (
	"time"

	"github.com/Daihongyi/surf/internal/client"
)

const DefaultBufferSize = 1024 * 1024 * 8 // 8MB buffer

// multiDownloadThreshold is the minimum file size for the segmented path.
// Below this the worker-spawn and merge cost outweighs the gain.
const multiDownloadThreshold = int64(10 * 1024 * 1024)

const TempDirName = ".surf-temp"

type Config struct {
	URL          string
	OutputPath   string
	Connections  int
	Continue     bool
	IdleTimeout  time.Duration
	ClientConfig client.Config
}

// Segment is one contiguous byte range assigned to one download worker.
// EndByte is inclusive.
type Segment struct {
	Index     int
	StartByte int64
	EndByte   int64
	TempPath  string
}

type strategy int

const (
	strategySingle strategy = iota
	strategyParallel
)

// chooseStrategy picks the transfer path once, before any worker spawns.
// The parallel path needs confirmed range support, a known size above the
// threshold, real parallelism and something left to fetch; everything else
// streams on a single connection.
func chooseStrategy(probe client.ProbeResult, resumeOffset int64, connections int) strategy {
	if !probe.SupportsRange || probe.TotalSize == 0 || connections <= 1 {
		return strategySingle
	}
	if probe.TotalSize <= multiDownloadThreshold {
		return strategySingle
	}
	if resumeOffset >= probe.TotalSize {
		return strategySingle
	}
	if (probe.TotalSize-resumeOffset)/int64(connections) == 0 {
		return strategySingle
	}
	return strategyParallel
}

// Result is the completion report for one download invocation.
type Result struct {
	BytesWritten int64
	TotalBytes   int64
	Elapsed      time.Duration
	OutputPath   string
}
