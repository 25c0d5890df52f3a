// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package fetchpipe

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/mseed"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// writeGroup merges a group of newly decoded same-day traces with whatever
// is already on disk at the group's SDS path, writes the result, and
// records the covered interval in the archive index.
func (p *Pipeline) writeGroup(key streamkey.Key, year, doy int, incoming []mseed.Trace) error {
	path := key.SDSPath(p.SDSRoot, year, doy)

	existing, err := readExisting(path)
	if err != nil {
		return &apperr.ParseError{Path: path, Err: err}
	}

	final, err := mergeAll(existing, incoming)
	if err != nil {
		return &apperr.WriteError{Path: path, Err: err}
	}
	if len(final) == 0 {
		return nil
	}

	if err := writeTraces(path, final); err != nil {
		return &apperr.WriteError{Path: path, Err: err}
	}
	metrics.FilesWritten.Inc()

	interval := model.ArchiveInterval{
		Key:   key,
		Start: minStart(final),
		End:   maxEnd(final),
	}
	if err := p.Index.BulkInsertArchive([]model.ArchiveInterval{interval}); err != nil {
		return &apperr.IndexError{Err: err}
	}
	return nil
}

// readExisting decodes the file already on disk at path, if any. A missing
// file is not an error: it reports an empty trace set.
func readExisting(path string) ([]mseed.Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return mseed.Decode(data)
}

// mergeAll folds a file's existing traces with a new group of incoming
// traces into the final set of contiguous traces the file should hold.
func mergeAll(existing, incoming []mseed.Trace) ([]mseed.Trace, error) {
	all := make([]mseed.Trace, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)
	return foldTraces(all)
}

// foldTraces repeatedly merges a list of same-day, same-key traces into
// the smallest set of contiguous Traces, preserving mseed.Merge's
// gap-splitting and overlap-resolution semantics across more than two
// inputs. mseed.Merge only ever compares one accumulator trace against one
// new trace, so a true gap found partway through folding can split the
// accumulator into more than one segment; foldTraces splices that result
// back in place of the single accumulator it replaced.
func foldTraces(traces []mseed.Trace) ([]mseed.Trace, error) {
	var nonEmpty []mseed.Trace
	for _, t := range traces {
		if len(t.Samples) > 0 {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil
	}

	sort.Slice(nonEmpty, func(i, j int) bool { return nonEmpty[i].Start.Before(nonEmpty[j].Start) })

	acc := []mseed.Trace{nonEmpty[0]}
	for _, next := range nonEmpty[1:] {
		merged, err := mseed.Merge(acc[len(acc)-1], next)
		if err != nil {
			return nil, err
		}
		acc = append(acc[:len(acc)-1], merged...)
	}
	return acc, nil
}

// writeTraces encodes final in start order and writes it atomically: a
// temp file in the same directory, then a rename, so a crash mid-write
// never leaves a half-written file at path.
func writeTraces(path string, final []mseed.Trace) error {
	sort.Slice(final, func(i, j int) bool { return final[i].Start.Before(final[j].Start) })

	var out []byte
	for _, t := range final {
		enc, err := mseed.Encode(t)
		if err != nil {
			return err
		}
		out = append(out, enc...)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func minStart(traces []mseed.Trace) time.Time {
	m := traces[0].Start
	for _, t := range traces[1:] {
		if t.Start.Before(m) {
			m = t.Start
		}
	}
	return m
}

func maxEnd(traces []mseed.Trace) time.Time {
	m := traces[0].End()
	for _, t := range traces[1:] {
		if t.End().After(m) {
			m = t.End()
		}
	}
	return m
}
