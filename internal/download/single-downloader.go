package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/output"
)

// PerformSingleDownload streams the whole resource (or its tail, when
// resuming) over one connection into outputPath. It returns the bytes
// written by this invocation.
func PerformSingleDownload(ctx context.Context, c *client.Client, url, outputPath string, resumeOffset, totalSize int64, idleTimeout time.Duration, prog *Progress) (int64, error) {
	log := output.GetLogger("download")
	if totalSize > 0 && resumeOffset >= totalSize {
		log.Debug().Int64("offset", resumeOffset).Int64("size", totalSize).Msg("File already fully downloaded, nothing to do")
		return 0, nil
	}

	fileMode := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	outFile, err := os.OpenFile(outputPath, fileMode, 0644)
	if err != nil {
		return 0, &client.FilesystemError{Path: outputPath, Err: err}
	}
	defer outFile.Close()

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &client.ConfigurationError{Detail: err.Error()}
	}
	if resumeOffset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeOffset))
		log.Debug().Int64("offset", resumeOffset).Msg("Resuming download from offset")
	}
	req.Header.Set("Connection", "keep-alive")
	resp, err := c.Do(req)
	if err != nil {
		return 0, client.WrapTransportError("download", err, c.ConnectTimeout())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, &client.ProtocolError{StatusCode: resp.StatusCode}
	}
	if resumeOffset > 0 && resp.StatusCode != http.StatusPartialContent {
		// Server ignored the Range header; appending the full body would
		// corrupt the file.
		return 0, &client.ProtocolError{StatusCode: resp.StatusCode, Detail: "server ignored range request", Err: client.ErrRangeRequestsNotSupported}
	}

	written, err := streamBody(resp.Body, outFile, outputPath, idleTimeout, prog, cancel)
	if err != nil {
		return written, err
	}
	outFile.Sync()
	return written, nil
}

// streamBody copies body chunks to out, feeding the shared progress counter
// and guarding the wait for each chunk with an idle watchdog. The watchdog
// is armed from the last received chunk, so long transfers are fine as long
// as data keeps flowing. cancel must abort the request the body belongs to.
func streamBody(body io.Reader, out *os.File, outputPath string, idleTimeout time.Duration, prog *Progress, cancel context.CancelFunc) (int64, error) {
	var idleFired atomic.Bool
	var watchdog *time.Timer
	if idleTimeout > 0 {
		watchdog = time.AfterFunc(idleTimeout, func() {
			idleFired.Store(true)
			cancel()
		})
		defer watchdog.Stop()
	}

	buffer := make([]byte, DefaultBufferSize)
	var written int64
	for {
		bytesRead, readErr := body.Read(buffer)
		if bytesRead > 0 {
			if watchdog != nil {
				watchdog.Reset(idleTimeout)
			}
			if _, writeErr := out.Write(buffer[:bytesRead]); writeErr != nil {
				return written, &client.FilesystemError{Path: outputPath, Err: writeErr}
			}
			written += int64(bytesRead)
			prog.Add(int64(bytesRead))
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			if idleFired.Load() {
				return written, &client.IdleTimeoutError{Idle: idleTimeout}
			}
			return written, &client.NetworkError{Op: "download", Err: readErr}
		}
	}
}
