package cmd

import (
	"context"
	"errors"
	"fmt"
	u "net/url"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/config"
	"github.com/Daihongyi/surf/internal/download"
	"github.com/Daihongyi/surf/internal/output"
)

func newDownloadCmd() *cobra.Command {
	var (
		parallel         int
		continueDownload bool
		idleTimeout      time.Duration
		connectTimeout   time.Duration
		headers          []string
		http3            bool
	)

	cmd := &cobra.Command{
		Use:   "download [URL] [OUTPUT]",
		Short: "Download a file with progress display and resumable transfers",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			url := args[0]
			parsedURL, err := u.Parse(url)
			if err != nil || parsedURL.Scheme == "" {
				output.PrintError("Invalid URL format")
				os.Exit(1)
			}
			outputPath := ""
			if len(args) > 1 {
				outputPath = args[1]
			} else {
				outputPath = path.Base(parsedURL.Path)
				if outputPath == "." || outputPath == "/" || outputPath == "" {
					outputPath = "download"
				}
			}
			syncFlagCache(cmd, "parallel", "continue", "idle-timeout", "http3")

			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				cfg = config.Default()
			}

			result, err := download.Run(context.Background(), download.Config{
				URL:         url,
				OutputPath:  outputPath,
				Connections: parallel,
				Continue:    continueDownload,
				IdleTimeout: idleTimeout,
				ClientConfig: client.Config{
					FollowRedirects: true,
					ConnectTimeout:  connectTimeout,
					UserAgent:       cfg.DefaultUserAgent,
					Headers:         client.ParseHeaderArgs(headers),
					HTTP3:           http3,
				},
			}, true)
			if err != nil {
				printDownloadError(err)
				os.Exit(1)
			}

			elapsed := result.Elapsed.Seconds()
			avgSpeed := output.FormatSpeed(result.BytesWritten, elapsed)
			output.PrintSuccess(fmt.Sprintf("Downloaded %s in %.2fs (avg: %s) to: %s",
				output.FormatBytes(uint64(result.TotalBytes)), elapsed, avgSpeed, result.OutputPath))
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "Number of parallel connections")
	cmd.Flags().BoolVarP(&continueDownload, "continue", "c", false, "Continue interrupted download")
	cmd.Flags().DurationVarP(&idleTimeout, "idle-timeout", "t", 30*time.Second, "Idle timeout (time between two received chunks)")
	cmd.Flags().DurationVar(&connectTimeout, "connect-timeout", 10*time.Second, "Connection timeout")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers; can be specified multiple times")
	cmd.Flags().BoolVar(&http3, "http3", false, "Use HTTP/3 (experimental)")
	return cmd
}

// printDownloadError surfaces the error class, since the retry advice
// differs: idle and network failures are safe to resume, protocol errors
// are not.
func printDownloadError(err error) {
	var idleErr *client.IdleTimeoutError
	var connectErr *client.ConnectTimeoutError
	var protoErr *client.ProtocolError
	switch {
	case errors.As(err, &idleErr):
		output.PrintError(fmt.Sprintf("Download failed: %v", idleErr))
		output.PrintDetail("Partial data was kept; retry with --continue to resume")
	case errors.As(err, &connectErr):
		output.PrintError(fmt.Sprintf("Download failed: %v", connectErr))
		output.PrintDetail("Retry with --continue to resume")
	case errors.As(err, &protoErr):
		output.PrintError(fmt.Sprintf("Download failed: %v", protoErr))
		output.PrintDetail("The server did not behave as expected; resuming will not help")
	default:
		output.PrintError(fmt.Sprintf("Download failed: %v", err))
	}
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [OUTPUT]",
		Short: "Remove leftover temporary part files for an output path",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := download.Clean(args[0]); err != nil {
				output.PrintError("Error cleaning up temporary files")
				os.Exit(1)
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
	return cmd
}
