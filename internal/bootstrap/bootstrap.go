// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package bootstrap constructs an archive index from an existing SDS tree
// that has none, by walking the tree, filtering filenames against one or
// more shell-style patterns, and reading each surviving file's MiniSEED
// header to derive its covered interval.
package bootstrap

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/mseed"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// DefaultPattern matches the standard SDS single-day filename:
// NN.SSSSS.LL.CCC.D.YYYY.DDD.
const DefaultPattern = "??.*.*.???.?.????.???"

// ArchiveIndex is the subset of the archive index bootstrap writes to.
// Index writes are serialized behind the index's own connection pool, so
// bootstrap's workers may call BulkInsertArchive concurrently.
type ArchiveIndex interface {
	BulkInsertArchive(intervals []model.ArchiveInterval) error
}

// Config parameterizes one bootstrap run.
type Config struct {
	Root        string
	Patterns    []string
	NewerThan   time.Time
	Concurrency int
}

// Run walks Root, filters entries by Config.Patterns (DefaultPattern if
// none given), and indexes every surviving file. Files that fail to open
// or parse are logged and skipped; they never block the rest of the
// batch. Concurrency <= 0 means "use all available CPUs".
func Run(ctx context.Context, idx ArchiveIndex, cfg Config) error {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	paths, err := discover(cfg.Root, patterns, cfg.NewerThan)
	if err != nil {
		return err
	}
	metrics.BootstrapFilesScanned.Add(float64(len(paths)))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, concurrency)
	var indexed int64

	for _, path := range paths {
		path := path
		if gctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			interval, err := indexFile(path)
			if err != nil {
				logging.Warn().Err(err).Str("path", path).Msg("skipping file that failed to parse during bootstrap")
				return nil
			}
			if err := idx.BulkInsertArchive([]model.ArchiveInterval{interval}); err != nil {
				logging.Warn().Err(err).Str("path", path).Msg("skipping file whose interval could not be indexed")
				return nil
			}
			indexed++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	metrics.BootstrapFilesIndexed.Add(float64(indexed))
	logging.Info().Int("scanned", len(paths)).Int64("indexed", indexed).Msg("bootstrap pass complete")
	return nil
}

// discover walks root and returns every file whose base name matches at
// least one pattern and, when newerThan is non-zero, whose mtime is after
// it.
func discover(root string, patterns []string, newerThan time.Time) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchesAny(patterns, filepath.Base(path)) {
			return nil
		}
		if !newerThan.IsZero() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			if !info.ModTime().After(newerThan) {
				return nil
			}
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// indexFile reads path, decodes it as MiniSEED, and returns the interval
// its traces cover. A file containing more than one StreamKey (unusual
// for a well-formed SDS file) is indexed under the first trace's key.
func indexFile(path string) (model.ArchiveInterval, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ArchiveInterval{}, err
	}
	traces, err := mseed.Decode(data)
	if err != nil {
		return model.ArchiveInterval{}, err
	}
	if len(traces) == 0 {
		return model.ArchiveInterval{}, errEmptyFile
	}

	var key streamkey.Key
	minStart := traces[0].Start
	maxEnd := traces[0].End()
	for i, t := range traces {
		if i == 0 {
			key = t.Key
		}
		if t.Start.Before(minStart) {
			minStart = t.Start
		}
		if t.End().After(maxEnd) {
			maxEnd = t.End()
		}
	}

	return model.ArchiveInterval{Key: key, Start: minStart, End: maxEnd}, nil
}

var errEmptyFile = &emptyFileError{}

type emptyFileError struct{}

func (e *emptyFileError) Error() string { return "mseed file contains no traces" }
