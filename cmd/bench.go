package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/bench"
	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/config"
	"github.com/Daihongyi/surf/internal/output"
)

// benchOverallTimeout is the per-request bound during a benchmark run.
const benchOverallTimeout = 30 * time.Second

func newBenchCmd() *cobra.Command {
	var (
		requests       int
		concurrency    int
		connectTimeout time.Duration
		http3          bool
		quiet          bool
	)

	cmd := &cobra.Command{
		Use:   "bench [URL]",
		Short: "Benchmark a URL by sending multiple requests",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			url := args[0]
			syncFlagCache(cmd, "requests", "concurrency", "connect-timeout", "http3")

			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				cfg = config.Default()
			}
			c, err := client.New(client.Config{
				FollowRedirects: true,
				ConnectTimeout:  connectTimeout,
				OverallTimeout:  benchOverallTimeout,
				UserAgent:       cfg.DefaultUserAgent,
				HTTP3:           http3,
			})
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}

			output.PrintHeader(fmt.Sprintf("Benchmarking %s with %d requests, concurrency %d", url, requests, concurrency))
			benchCfg := bench.Config{URL: url, Requests: requests, Concurrency: concurrency}
			if !quiet {
				benchCfg.OnResult = func(sample bench.Sample) {
					line := fmt.Sprintf("Status: %3d | Time: %v", sample.StatusCode, sample.Latency.Round(time.Microsecond))
					if sample.Successful() {
						fmt.Println(line)
					} else {
						fmt.Println(output.FError(line))
					}
				}
			}
			stats, err := bench.Run(context.Background(), c, benchCfg)
			if err != nil {
				output.PrintError(fmt.Sprintf("Benchmark failed: %v", err))
				os.Exit(1)
			}
			printStats(stats)
		},
	}

	cmd.Flags().IntVarP(&requests, "requests", "n", 100, "Number of requests to send")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 10, "Number of concurrent connections")
	cmd.Flags().DurationVarP(&connectTimeout, "connect-timeout", "t", 5*time.Second, "Connection timeout")
	cmd.Flags().BoolVar(&http3, "http3", false, "Use HTTP/3 (experimental)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress per-request status lines")
	return cmd
}

func printStats(stats bench.Stats) {
	fmt.Println()
	output.PrintHeader("Benchmark complete")
	fmt.Printf("Total time:          %.2fs\n", stats.TotalTime.Seconds())
	fmt.Printf("Requests per second: %.2f\n", stats.RPS)
	fmt.Printf("Successful:          %d\n", stats.Successful)
	fmt.Printf("Failed:              %d\n", stats.Failed)
	fmt.Println()
	fmt.Printf("Latency  min: %v  avg: %v  max: %v\n",
		stats.MinLatency.Round(time.Microsecond),
		stats.AvgLatency.Round(time.Microsecond),
		stats.MaxLatency.Round(time.Microsecond))
	fmt.Printf("Percentiles  p50: %v  p95: %v  p99: %v\n",
		stats.P50.Round(time.Microsecond),
		stats.P95.Round(time.Microsecond),
		stats.P99.Round(time.Microsecond))
	fmt.Println()
	codes := make([]int, 0, len(stats.StatusCounts))
	for code := range stats.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		count := stats.StatusCounts[code]
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "err"
		}
		fmt.Printf("Status %s: %d (%.1f%%)\n", label, count, float64(count)*100/float64(stats.Requests))
	}
}
