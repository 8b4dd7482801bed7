package client

import (
	"net/http"
	"strconv"

	"github.com/Daihongyi/surf/internal/output"
)

// ProbeResult is what a metadata-only request learned about a resource.
// TotalSize 0 means unknown, not empty; callers must check before treating
// it as a length.
type ProbeResult struct {
	TotalSize     int64
	SupportsRange bool
}

// Probe issues a HEAD request to learn resource size and range support.
// Transport failure is fatal and not retried.
func Probe(c *Client, url string) (ProbeResult, error) {
	log := output.GetLogger("probe")
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return ProbeResult{}, &ConfigurationError{Detail: err.Error()}
	}
	resp, err := c.Do(req)
	if err != nil {
		return ProbeResult{}, WrapTransportError("probe", err, c.ConnectTimeout())
	}
	defer resp.Body.Close()

	var result ProbeResult
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		size, err := strconv.ParseInt(contentLength, 10, 64)
		if err == nil && size > 0 {
			result.TotalSize = size
		}
	}
	result.SupportsRange = resp.Header.Get("Accept-Ranges") == "bytes"
	log.Debug().Int64("size", result.TotalSize).Bool("rangeSupported", result.SupportsRange).Msg("Probe completed")
	return result, nil
}
