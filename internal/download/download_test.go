package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Daihongyi/surf/internal/client"
)

func TestRunDownloadsSmallFileSingleStream(t *testing.T) {
	data := testData(32 * 1024)
	server := rangeServer(t, data, nil)
	outputPath := filepath.Join(t.TempDir(), "out.bin")

	result, err := Run(context.Background(), Config{
		URL:          server.URL,
		OutputPath:   outputPath,
		Connections:  4,
		IdleTimeout:  time.Second,
		ClientConfig: client.Config{ConnectTimeout: 5 * time.Second},
	}, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.BytesWritten != int64(len(data)) {
		t.Errorf("BytesWritten = %d, want %d", result.BytesWritten, len(data))
	}
	if result.TotalBytes != int64(len(data)) {
		t.Errorf("TotalBytes = %d, want %d", result.TotalBytes, len(data))
	}
	if !filepath.IsAbs(result.OutputPath) {
		t.Errorf("OutputPath %q is not absolute", result.OutputPath)
	}
	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("downloaded file differs from source data")
	}
}

func TestRunUnknownSizeStreamsSingleRegardlessOfParallelism(t *testing.T) {
	data := testData(16 * 1024)
	var sawRange bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "" {
			sawRange = true
		}
		if r.Method == http.MethodHead {
			// No Content-Length: size stays unknown
			return
		}
		w.Write(data)
	}))
	defer server.Close()
	outputPath := filepath.Join(t.TempDir(), "out.bin")

	result, err := Run(context.Background(), Config{
		URL:          server.URL,
		OutputPath:   outputPath,
		Connections:  8,
		IdleTimeout:  time.Second,
		ClientConfig: client.Config{ConnectTimeout: 5 * time.Second},
	}, false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sawRange {
		t.Error("unknown size must not trigger range requests")
	}
	if result.BytesWritten != int64(len(data)) {
		t.Errorf("BytesWritten = %d, want %d", result.BytesWritten, len(data))
	}
}

func TestRunContinueIsIdempotentAtExactOffset(t *testing.T) {
	data := testData(80 * 1024)
	server := rangeServer(t, data, nil)
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")

	cfg := Config{
		URL:          server.URL,
		OutputPath:   outputPath,
		Connections:  1,
		Continue:     true,
		IdleTimeout:  time.Second,
		ClientConfig: client.Config{ConnectTimeout: 5 * time.Second},
	}

	// First run completes fully, second run resumes from the exact final
	// byte count and must change nothing.
	if _, err := Run(context.Background(), cfg, false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	result, err := Run(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.BytesWritten != 0 {
		t.Errorf("second run wrote %d bytes, want 0", result.BytesWritten)
	}
	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("file after resumed run differs from a single uninterrupted run")
	}
}

func TestCleanRemovesPartFiles(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "out.bin")
	tempDir := filepath.Join(dir, TempDirName)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"out.bin.part0", "out.bin.part1"} {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := Clean(outputPath); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Error("expected empty temp dir to be removed")
	}
	// Cleaning when nothing is left is a no-op
	if err := Clean(outputPath); err != nil {
		t.Fatalf("Clean on missing dir failed: %v", err)
	}
}
