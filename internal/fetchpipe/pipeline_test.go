// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package fetchpipe

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/mseed"
	"github.com/tomtom215/seedcore/internal/remote"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

type fakeClient struct {
	data    []byte
	err     error
	calls   []remote.WaveformRequest
}

func (f *fakeClient) GetWaveforms(_ context.Context, req remote.WaveformRequest) ([]byte, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeClient) GetStations(context.Context, remote.StationRequest) (model.Inventory, error) {
	return model.Inventory{}, nil
}

func (f *fakeClient) GetEvents(context.Context, remote.EventRequest) (model.EventCatalog, error) {
	return model.EventCatalog{}, nil
}

type fakeIndex struct {
	inserted []model.ArchiveInterval
	err      error
}

func (f *fakeIndex) BulkInsertArchive(intervals []model.ArchiveInterval) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, intervals...)
	return nil
}

func encodeOneTrace(t *testing.T, tr mseed.Trace) []byte {
	t.Helper()
	data, err := mseed.Encode(tr)
	if err != nil {
		t.Fatalf("mseed.Encode() error = %v", err)
	}
	return data
}

func TestRunSingleWritesFileAndIndexesInterval(t *testing.T) {
	key := streamkey.Key{Network: "AU", Station: "CMSA", Location: "", Channel: "BHZ"}
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]int32, 100)
	for i := range samples {
		samples[i] = int32(i)
	}
	tr := mseed.Trace{Key: key, SampleRate: 40, Start: start, Samples: samples}

	client := &fakeClient{data: encodeOneTrace(t, tr)}
	idx := &fakeIndex{}
	root := t.TempDir()
	p := New(client, idx, root)

	req := model.FetchRequest{
		Pattern: streamkey.Pattern{Network: "AU", Station: "CMSA", Location: "", Channel: "BHZ"},
		Start:   start,
		End:     start.Add(time.Hour),
	}

	if err := p.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(idx.inserted) != 1 {
		t.Fatalf("BulkInsertArchive called with %d intervals, want 1", len(idx.inserted))
	}
	if idx.inserted[0].Key != key {
		t.Errorf("inserted key = %v, want %v", idx.inserted[0].Key, key)
	}

	path := key.SDSPath(root, 2023, start.YearDay())
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("SDS file %s not written: %v", path, err)
	}
}

func TestRunWholeRequestFetchErrorAbandonsWithNoIndexUpdate(t *testing.T) {
	client := &fakeClient{err: errors.New("service unavailable")}
	idx := &fakeIndex{}
	p := New(client, idx, t.TempDir())

	req := model.FetchRequest{
		Pattern: streamkey.Pattern{Network: "AU", Station: "CMSA", Channel: "BHZ"},
		Start:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2023, 6, 1, 1, 0, 0, 0, time.UTC),
	}

	if err := p.Run(context.Background(), req); err == nil {
		t.Fatal("Run() error = nil, want an error for a whole-request fetch failure")
	}
	if len(idx.inserted) != 0 {
		t.Errorf("BulkInsertArchive called %d times, want 0 after a whole-request failure", len(idx.inserted))
	}
}

func TestRunSplitsByStationAbovethreshold(t *testing.T) {
	client := &fakeClient{data: nil}
	idx := &fakeIndex{}
	p := New(client, idx, t.TempDir())
	p.StationSplitThreshold = 2

	req := model.FetchRequest{
		Pattern: streamkey.Pattern{Network: "AU", Station: "AAA,BBB,CCC", Channel: "BHZ"},
		Start:   time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2023, 6, 1, 1, 0, 0, 0, time.UTC),
	}

	if err := p.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(client.calls) != 3 {
		t.Fatalf("GetWaveforms called %d times, want 3 (one per station)", len(client.calls))
	}
	for _, call := range client.calls {
		if call.Station == "AAA,BBB,CCC" {
			t.Errorf("sub-request station = %q, want a single station", call.Station)
		}
	}
}

func TestRunPerStationFailureDoesNotBlockRemainingStations(t *testing.T) {
	key := streamkey.Key{Network: "AU", Station: "AAA", Channel: "BHZ"}
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	tr := mseed.Trace{Key: key, SampleRate: 40, Start: start, Samples: []int32{1, 2, 3, 4, 5}}

	client := &failAfterNClient{okData: encodeOneTrace(t, tr), failAfter: 1}
	idx := &fakeIndex{}
	p := New(client, idx, t.TempDir())
	p.StationSplitThreshold = 1

	req := model.FetchRequest{
		Pattern: streamkey.Pattern{Network: "AU", Station: "AAA,BBB", Channel: "BHZ"},
		Start:   start,
		End:     start.Add(time.Hour),
	}

	if err := p.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error = %v, want nil since per-station failures are logged, not returned", err)
	}
	if client.calls != 2 {
		t.Fatalf("client called %d times, want 2 even though the first station failed", client.calls)
	}
}

type failAfterNClient struct {
	okData    []byte
	failAfter int
	calls     int
}

func (f *failAfterNClient) GetWaveforms(context.Context, remote.WaveformRequest) ([]byte, error) {
	f.calls++
	if f.calls <= f.failAfter {
		return nil, errors.New("boom")
	}
	return f.okData, nil
}

func (f *failAfterNClient) GetStations(context.Context, remote.StationRequest) (model.Inventory, error) {
	return model.Inventory{}, nil
}

func (f *failAfterNClient) GetEvents(context.Context, remote.EventRequest) (model.EventCatalog, error) {
	return model.EventCatalog{}, nil
}
