package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/config"
	"github.com/Daihongyi/surf/internal/history"
	"github.com/Daihongyi/surf/internal/output"
)

// getOverallTimeout bounds a whole GET request. Downloads don't get one;
// plain fetches do.
const getOverallTimeout = 30 * time.Second

func newGetCmd() *cobra.Command {
	var (
		include        bool
		outputPath     string
		location       bool
		headers        []string
		connectTimeout time.Duration
		verbose        bool
		http3          bool
		analyze        bool
		formatJSON     bool
		saveHistory    bool
	)

	cmd := &cobra.Command{
		Use:   "get [URL]",
		Short: "Fetch a URL and display the response",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			url := args[0]

			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				output.PrintWarning(fmt.Sprintf("Could not load config: %v", err))
				cfg = config.Default()
			}
			syncFlagCache(cmd, "include", "location", "connect-timeout", "verbose", "json", "http3")

			clientHeaders := client.ParseHeaderArgs(headers)
			followRedirects := location
			if profileName != "" {
				profile, ok := cfg.GetProfile(profileName)
				if !ok {
					output.PrintError(fmt.Sprintf("Unknown profile: %s", profileName))
					os.Exit(1)
				}
				url = applyProfile(&profile, url, &clientHeaders, &followRedirects, &connectTimeout, cmd)
			}

			c, err := client.New(client.Config{
				FollowRedirects: followRedirects,
				ConnectTimeout:  connectTimeout,
				OverallTimeout:  getOverallTimeout,
				UserAgent:       cfg.DefaultUserAgent,
				Headers:         clientHeaders,
				HTTP3:           http3,
			})
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}

			entry := history.NewEntry(http.MethodGet, url, headerMap(clientHeaders))
			start := time.Now()
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				output.PrintError(fmt.Sprintf("Invalid URL: %v", err))
				os.Exit(1)
			}
			resp, err := c.Do(req)
			if err != nil {
				err = client.WrapTransportError("get", err, connectTimeout)
				output.PrintError(fmt.Sprintf("Request failed: %v", err))
				recordHistory(saveHistory, entry.WithError(err.Error()))
				os.Exit(1)
			}
			defer resp.Body.Close()

			formatter := output.NewFormatter(!noColor, formatJSON)
			if verbose {
				fmt.Printf("> %s %d %s\n", resp.Proto, resp.StatusCode, http.StatusText(resp.StatusCode))
				for name, values := range resp.Header {
					for _, value := range values {
						fmt.Printf("> %s: %s\n", name, value)
					}
				}
				fmt.Println(">")
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				output.PrintError(fmt.Sprintf("Error reading response body: %v", err))
				recordHistory(saveHistory, entry.WithError(err.Error()))
				os.Exit(1)
			}
			recordHistory(saveHistory, entry.WithResponse(resp.StatusCode, time.Since(start), int64(len(body))))

			if include {
				fmt.Println(formatter.FormatStatusLine(resp.Proto, resp.StatusCode))
				fmt.Print(formatter.FormatHeaders(resp.Header))
				fmt.Println()
			}

			rendered := formatter.FormatBody(body, resp.Header.Get("Content-Type"))
			if outputPath != "" {
				if err := os.WriteFile(outputPath, body, 0644); err != nil {
					output.PrintError(fmt.Sprintf("Error writing output file: %v", err))
					os.Exit(1)
				}
			} else {
				fmt.Println(rendered)
			}

			if analyze {
				output.PrintHeader("Header analysis")
				for _, line := range output.AnalyzeHeaders(resp.Header) {
					output.PrintDetail(line)
				}
			}
			if verbose {
				fmt.Printf("\n< Response size: %s\n", output.FormatBytes(uint64(len(body))))
			}
		},
	}

	cmd.Flags().BoolVarP(&include, "include", "i", false, "Include response headers in output")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save output to file")
	cmd.Flags().BoolVarP(&location, "location", "L", false, "Follow redirects")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Bearer token'); can be specified multiple times")
	cmd.Flags().DurationVarP(&connectTimeout, "connect-timeout", "t", 10*time.Second, "Connection timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Display verbose output")
	cmd.Flags().BoolVar(&http3, "http3", false, "Use HTTP/3 (experimental)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Analyze response headers")
	cmd.Flags().BoolVar(&formatJSON, "json", true, "Pretty-print JSON responses")
	cmd.Flags().BoolVar(&saveHistory, "save-history", true, "Record the request in history")
	return cmd
}

// applyProfile folds a profile's defaults into flags the user didn't set
// explicitly, and resolves relative URLs against the profile base URL.
func applyProfile(profile *config.Profile, url string, headers *[]client.Header, followRedirects *bool, connectTimeout *time.Duration, cmd *cobra.Command) string {
	for key, value := range profile.Headers {
		*headers = append(*headers, client.Header{Key: key, Value: value})
	}
	if !cmd.Flags().Changed("location") {
		*followRedirects = profile.FollowRedirects
	}
	if profile.Timeout > 0 && !cmd.Flags().Changed("connect-timeout") {
		*connectTimeout = time.Duration(profile.Timeout) * time.Second
	}
	if profile.BaseURL != "" && !strings.Contains(url, "://") {
		return strings.TrimSuffix(profile.BaseURL, "/") + "/" + strings.TrimPrefix(url, "/")
	}
	return url
}

func headerMap(headers []client.Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Key] = h.Value
	}
	return m
}

func recordHistory(enabled bool, entry history.Entry) {
	if !enabled {
		return
	}
	log := output.GetLogger("history")
	path := history.DefaultPath()
	h, err := history.Load(path)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load history, skipping record")
		return
	}
	h.Add(entry)
	if err := h.Save(path); err != nil {
		log.Warn().Err(err).Msg("Could not save history")
	}
}
