package bench

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/limiter"
	"github.com/Daihongyi/surf/internal/output"
)

type Config struct {
	URL         string
	Requests    int
	Concurrency int
	// OnResult, when set, is called once per completed request from worker
	// goroutines; it must be safe for concurrent use.
	OnResult func(Sample)
}

// Run issues cfg.Requests GET requests bounded by cfg.Concurrency and
// reduces the timing samples. A failed request degrades its sample, it
// never aborts the run; every request is waited for.
func Run(ctx context.Context, c *client.Client, cfg Config) (Stats, error) {
	log := output.GetLogger("bench")
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	log.Debug().Int("requests", cfg.Requests).Int("concurrency", cfg.Concurrency).Msg("Starting benchmark run")

	lim := limiter.New(cfg.Concurrency)
	samples := make([]Sample, 0, cfg.Requests)
	mutex := &sync.Mutex{}
	var wg sync.WaitGroup

	startTime := time.Now()
	for i := 0; i < cfg.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := lim.Acquire(ctx); err != nil {
				return
			}
			defer lim.Release()
			sample := performRequest(ctx, c, cfg.URL)
			mutex.Lock()
			samples = append(samples, sample)
			mutex.Unlock()
			if cfg.OnResult != nil {
				cfg.OnResult(sample)
			}
		}()
	}
	wg.Wait()
	totalTime := time.Since(startTime)

	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	return Reduce(samples, totalTime), nil
}

func performRequest(ctx context.Context, c *client.Client, url string) Sample {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Sample{Latency: time.Since(start)}
	}
	resp, err := c.Do(req)
	latency := time.Since(start)
	if err != nil {
		// No status code for transport errors
		return Sample{Latency: latency}
	}
	// Drain so the connection can be reused; latency was already taken.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return Sample{Latency: latency, StatusCode: resp.StatusCode}
}
