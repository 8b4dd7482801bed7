package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/limiter"
	"github.com/Daihongyi/surf/internal/output"
)

// planSegments partitions [resumeOffset, totalSize-1] into one contiguous,
// non-overlapping range per connection. The last segment absorbs the
// integer-division remainder so its end lands exactly on totalSize-1.
func planSegments(outputPath string, resumeOffset, totalSize int64, connections int) []Segment {
	tempDir := filepath.Join(filepath.Dir(outputPath), TempDirName)
	remaining := totalSize - resumeOffset
	chunkSize := remaining / int64(connections)
	var segments []Segment
	currentPosition := resumeOffset
	for i := 0; i < connections; i++ {
		startByte := currentPosition
		endByte := startByte + chunkSize - 1
		if i == connections-1 {
			endByte = totalSize - 1
		}
		if endByte >= startByte {
			segments = append(segments, Segment{
				Index:     i,
				StartByte: startByte,
				EndByte:   endByte,
				TempPath:  filepath.Join(tempDir, fmt.Sprintf("%s.part%d", filepath.Base(outputPath), i)),
			})
		}
		currentPosition = endByte + 1
	}
	return segments
}

// PerformMultiDownload fetches disjoint byte ranges concurrently into part
// files and merges them in index order. A single failed segment fails the
// whole attempt: the first error cancels the sibling workers and surfaces.
// Bytes already on disk are left alone.
func PerformMultiDownload(ctx context.Context, c *client.Client, cfg Config, resumeOffset, totalSize int64, prog *Progress) error {
	log := output.GetLogger("download")
	tempDir := filepath.Join(filepath.Dir(cfg.OutputPath), TempDirName)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return &client.FilesystemError{Path: tempDir, Err: err}
	}

	segments := planSegments(cfg.OutputPath, resumeOffset, totalSize, cfg.Connections)
	log.Debug().Int("segments", len(segments)).Int64("offset", resumeOffset).Int64("size", totalSize).Msg("Planned segmented download")

	groupCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	lim := limiter.New(cfg.Connections)
	var wg sync.WaitGroup
	for i := range segments {
		wg.Add(1)
		go func(seg *Segment) {
			defer wg.Done()
			if err := lim.Acquire(groupCtx); err != nil {
				return
			}
			defer lim.Release()
			if err := downloadSegment(groupCtx, c, cfg.URL, seg, cfg.IdleTimeout, prog); err != nil {
				log.Debug().Err(err).Int("segment", seg.Index).Msg("Segment download failed, aborting siblings")
				cancel(err)
			}
		}(&segments[i])
	}
	wg.Wait()
	if err := context.Cause(groupCtx); err != nil {
		return err
	}

	if err := mergeSegments(cfg.OutputPath, segments, resumeOffset, totalSize); err != nil {
		return err
	}
	return nil
}

// downloadSegment streams one byte range to its part file. The server must
// answer 206; anything else fails the segment.
func downloadSegment(ctx context.Context, c *client.Client, url string, seg *Segment, idleTimeout time.Duration, prog *Progress) error {
	log := output.GetLogger("segment").With().Int("segment", seg.Index).Logger()
	tempFile, err := os.OpenFile(seg.TempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &client.FilesystemError{Path: seg.TempPath, Err: err}
	}
	defer tempFile.Close()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return &client.ConfigurationError{Detail: err.Error()}
	}
	rangeHeader := fmt.Sprintf("bytes=%d-%d", seg.StartByte, seg.EndByte)
	req.Header.Set("Range", rangeHeader)
	req.Header.Set("Connection", "keep-alive")
	log.Debug().Str("range", rangeHeader).Msg("Sending range request")
	resp, err := c.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return client.WrapTransportError("segment download", err, c.ConnectTimeout())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		return &client.ProtocolError{StatusCode: resp.StatusCode, Detail: "range request not honored", Err: client.ErrRangeRequestsNotSupported}
	}

	written, err := streamBody(resp.Body, tempFile, seg.TempPath, idleTimeout, prog, cancel)
	if err != nil {
		if ctx.Err() != nil && context.Cause(ctx) != nil {
			// A sibling failed first; report the cancellation, not a
			// spurious network error.
			return ctx.Err()
		}
		return err
	}
	expectedSize := seg.EndByte - seg.StartByte + 1
	if written != expectedSize {
		return &client.ProtocolError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("expected %d bytes for segment, got %d", expectedSize, written)}
	}
	log.Debug().Int64("bytes", written).Msg("Segment download completed")
	return nil
}

// mergeSegments concatenates part files strictly by index into the final
// destination, then best-effort deletes them.
func mergeSegments(outputPath string, segments []Segment, resumeOffset, totalSize int64) error {
	log := output.GetLogger("download")
	fileMode := os.O_CREATE | os.O_WRONLY
	if resumeOffset > 0 {
		fileMode |= os.O_APPEND
	} else {
		fileMode |= os.O_TRUNC
	}
	destFile, err := os.OpenFile(outputPath, fileMode, 0644)
	if err != nil {
		return &client.FilesystemError{Path: outputPath, Err: err}
	}
	defer destFile.Close()

	var totalWritten int64
	for _, seg := range segments {
		written, err := appendSegment(destFile, seg)
		if err != nil {
			return err
		}
		totalWritten += written
	}
	if totalWritten != totalSize-resumeOffset {
		return fmt.Errorf("error: total written bytes (%d) doesn't match expected size (%d)", totalWritten, totalSize-resumeOffset)
	}

	// Cleanup part files; failure to delete isn't fatal
	for _, seg := range segments {
		if err := os.Remove(seg.TempPath); err != nil {
			log.Warn().Err(err).Str("file", seg.TempPath).Msg("Could not remove temporary part file")
		}
	}
	tempDir := filepath.Join(filepath.Dir(outputPath), TempDirName)
	if remainingFiles, err := os.ReadDir(tempDir); err == nil && len(remainingFiles) == 0 {
		os.Remove(tempDir)
	}
	return nil
}

func appendSegment(destFile *os.File, seg Segment) (int64, error) {
	tempFile, err := os.Open(seg.TempPath)
	if err != nil {
		return 0, fmt.Errorf("error opening part file %s: %v", seg.TempPath, err)
	}
	defer tempFile.Close()
	expectedSize := seg.EndByte - seg.StartByte + 1
	written, err := io.Copy(destFile, tempFile)
	if err != nil {
		return written, fmt.Errorf("error copying part data: %v", err)
	}
	if written != expectedSize {
		return written, fmt.Errorf("error: wrote %d bytes but part size is %d", written, expectedSize)
	}
	return written, nil
}
