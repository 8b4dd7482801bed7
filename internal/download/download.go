package download

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Daihongyi/surf/internal/client"
	"github.com/Daihongyi/surf/internal/output"
)

// Run executes one download invocation: probe the resource, pick a
// strategy, transfer, and report. Downloads carry no overall duration
// bound; only the connect timeout and the idle watchdog limit them.
func Run(ctx context.Context, cfg Config, showProgress bool) (*Result, error) {
	log := output.GetLogger("download")
	clientCfg := cfg.ClientConfig
	clientCfg.OverallTimeout = 0
	c, err := client.New(clientCfg)
	if err != nil {
		return nil, err
	}

	probe, err := client.Probe(c, cfg.URL)
	if err != nil {
		return nil, err
	}

	var resumeOffset int64
	if cfg.Continue {
		if fileInfo, err := os.Stat(cfg.OutputPath); err == nil {
			resumeOffset = fileInfo.Size()
			log.Debug().Int64("offset", resumeOffset).Msg("Continuing from existing file")
		}
	}

	prog := NewProgress(resumeOffset, probe.TotalSize)
	if showProgress {
		display := NewDisplay(prog)
		display.Start()
		defer display.Stop()
	}

	startTime := time.Now()
	var written int64
	switch chooseStrategy(probe, resumeOffset, cfg.Connections) {
	case strategyParallel:
		err = PerformMultiDownload(ctx, c, cfg, resumeOffset, probe.TotalSize, prog)
		if err == nil {
			written = probe.TotalSize - resumeOffset
		}
	default:
		written, err = PerformSingleDownload(ctx, c, cfg.URL, cfg.OutputPath, resumeOffset, probe.TotalSize, cfg.IdleTimeout, prog)
	}
	if err != nil {
		return nil, err
	}

	absPath, absErr := filepath.Abs(cfg.OutputPath)
	if absErr != nil {
		absPath = cfg.OutputPath
	}
	return &Result{
		BytesWritten: written,
		TotalBytes:   resumeOffset + written,
		Elapsed:      time.Since(startTime),
		OutputPath:   absPath,
	}, nil
}

// Clean removes leftover part files for an output path.
func Clean(outputPath string) error {
	tempDir := filepath.Join(filepath.Dir(outputPath), TempDirName)
	files, err := os.ReadDir(tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	partPrefix := filepath.Base(outputPath) + ".part"
	for _, file := range files {
		if strings.HasPrefix(file.Name(), partPrefix) {
			if err := os.Remove(filepath.Join(tempDir, file.Name())); err != nil {
				return err
			}
		}
	}
	remainingFiles, err := os.ReadDir(tempDir)
	if err != nil {
		return err
	}
	if len(remainingFiles) == 0 {
		return os.Remove(tempDir)
	}
	return nil
}
