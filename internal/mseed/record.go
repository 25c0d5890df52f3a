// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/tomtom215/seedcore/internal/streamkey"
)

// RecordLen is the fixed MiniSEED record length this package reads and
// writes. 4096 matches the SDS archive convention.
const RecordLen = 4096

const (
	fixedHeaderLen  = 48
	blockette1000Len = 8
	dataOffset      = fixedHeaderLen + blockette1000Len // 56, rounded implicitly by RecordLen framing
	steim2Encoding  = 11
	bigEndianOrder  = 1
)

// recordLenPower is log2(RecordLen), stored in blockette 1000.
func recordLenPower() byte {
	p := byte(0)
	for n := RecordLen; n > 1; n >>= 1 {
		p++
	}
	return p
}

// Encode serializes one Trace as a sequence of fixed-length MiniSEED
// records, STEIM2-encoded. Samples are split across as many records as
// needed; the final record is zero-padded.
func Encode(t Trace) ([]byte, error) {
	const dataBytes = RecordLen - dataOffset
	const framesPerRecord = dataBytes / frameBytes
	const samplesPerRecordCap = framesPerRecord * wordsPerFrame * 7 // optimistic upper bound at 4-bit packing

	var out []byte
	seq := 1
	remaining := t.Samples
	cursor := t.Start

	for len(remaining) > 0 {
		n := len(remaining)
		if n > samplesPerRecordCap {
			n = samplesPerRecordCap
		}

		var encoded []byte
		var consumed int
		for {
			payload, _, _, err := steim2Encode(remaining[:n], framesPerRecord)
			if err == nil {
				encoded = payload
				consumed = n
				break
			}
			if n <= 1 {
				return nil, fmt.Errorf("mseed: encode record %d: %w", seq, err)
			}
			n /= 2
		}

		rec, err := buildRecord(t.Key, seq, cursor, t.SampleRate, remaining[:consumed], encoded)
		if err != nil {
			return nil, err
		}
		out = append(out, rec...)

		cursor = cursor.Add(time.Duration(float64(consumed) / t.SampleRate * float64(time.Second)))
		remaining = remaining[consumed:]
		seq++
	}

	return out, nil
}

func buildRecord(key streamkey.Key, seq int, start time.Time, sampleRate float64, samples []int32, payload []byte) ([]byte, error) {
	rec := make([]byte, RecordLen)

	putASCII(rec[0:6], fmt.Sprintf("%06d", seq))
	rec[6] = 'D'
	rec[7] = ' '
	putASCII(rec[8:13], padRight(key.Station, 5))
	putASCII(rec[13:15], padRight(key.Location, 2))
	putASCII(rec[15:18], padRight(key.Channel, 3))
	putASCII(rec[18:20], padRight(key.Network, 2))

	year, doy := start.UTC().Year(), start.UTC().YearDay()
	binary.BigEndian.PutUint16(rec[20:22], uint16(year))
	binary.BigEndian.PutUint16(rec[22:24], uint16(doy))
	rec[24] = byte(start.UTC().Hour())
	rec[25] = byte(start.UTC().Minute())
	rec[26] = byte(start.UTC().Second())
	rec[27] = 0
	tenThousandths := uint16(start.UTC().Nanosecond() / 100000)
	binary.BigEndian.PutUint16(rec[28:30], tenThousandths)

	binary.BigEndian.PutUint16(rec[30:32], uint16(len(samples)))

	factor, multiplier := encodeSampleRate(sampleRate)
	binary.BigEndian.PutUint16(rec[32:34], uint16(int16(factor)))
	binary.BigEndian.PutUint16(rec[34:36], uint16(int16(multiplier)))

	rec[36] = 0 // activity flags
	rec[37] = 0 // I/O flags
	rec[38] = 0 // data quality flags
	rec[39] = 1 // one blockette follows (1000)
	binary.BigEndian.PutUint32(rec[40:44], 0)
	binary.BigEndian.PutUint16(rec[44:46], uint16(dataOffset))
	binary.BigEndian.PutUint16(rec[46:48], uint16(fixedHeaderLen))

	binary.BigEndian.PutUint16(rec[48:50], 1000)
	binary.BigEndian.PutUint16(rec[50:52], 0)
	rec[52] = steim2Encoding
	rec[53] = bigEndianOrder
	rec[54] = recordLenPower()
	rec[55] = 0

	if len(payload) > RecordLen-dataOffset {
		return nil, fmt.Errorf("mseed: steim2 payload %d bytes exceeds record capacity", len(payload))
	}
	copy(rec[dataOffset:], payload)

	return rec, nil
}

// encodeSampleRate converts a float sample rate into the SEED fixed-header
// factor/multiplier pair: a positive factor is samples/second directly; a
// negative factor means 1/|factor| seconds per sample.
func encodeSampleRate(rate float64) (int16, int16) {
	if rate >= 1 {
		return int16(rate), 1
	}
	if rate > 0 {
		return int16(-1 / rate), 1
	}
	return 0, 1
}

func decodeSampleRate(factor, multiplier int16) float64 {
	if factor == 0 {
		return 0
	}
	rate := 1.0
	if factor > 0 {
		rate *= float64(factor)
	} else {
		rate /= float64(-factor)
	}
	if multiplier > 0 {
		rate *= float64(multiplier)
	} else if multiplier < 0 {
		rate /= float64(-multiplier)
	}
	return rate
}

func putASCII(dst []byte, s string) { copy(dst, s) }

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// Decode parses a sequence of fixed-length MiniSEED records and groups
// them into Traces by (StreamKey, sample rate), concatenating consecutive
// records in file order. Decode never reorders or merges non-adjacent
// records; day-splitting and cross-file merge are handled separately by
// the fetch pipeline.
func Decode(data []byte) ([]Trace, error) {
	if len(data)%RecordLen != 0 {
		return nil, fmt.Errorf("mseed: input length %d is not a multiple of record length %d", len(data), RecordLen)
	}

	var traces []Trace

	for offset := 0; offset+RecordLen <= len(data); offset += RecordLen {
		rec := data[offset : offset+RecordLen]
		trace, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("mseed: record at offset %d: %w", offset, err)
		}
		if len(traces) > 0 {
			last := &traces[len(traces)-1]
			slack := DayBoundarySlack(trace.SampleRate)
			gap := trace.Start.Sub(last.End())
			if last.Key == trace.Key && last.SampleRate == trace.SampleRate && gap >= -slack && gap <= slack {
				last.Samples = append(last.Samples, trace.Samples...)
				continue
			}
		}
		traces = append(traces, trace)
	}

	return traces, nil
}

func decodeRecord(rec []byte) (Trace, error) {
	if len(rec) < fixedHeaderLen {
		return Trace{}, fmt.Errorf("record shorter than fixed header")
	}

	station := trimASCII(rec[8:13])
	location := trimASCII(rec[13:15])
	channel := trimASCII(rec[15:18])
	network := trimASCII(rec[18:20])

	year := int(binary.BigEndian.Uint16(rec[20:22]))
	doy := int(binary.BigEndian.Uint16(rec[22:24]))
	hour := int(rec[24])
	minute := int(rec[25])
	second := int(rec[26])
	tenThousandths := int(binary.BigEndian.Uint16(rec[28:30]))
	nsamples := int(binary.BigEndian.Uint16(rec[30:32]))

	factor := int16(binary.BigEndian.Uint16(rec[32:34]))
	multiplier := int16(binary.BigEndian.Uint16(rec[34:36]))
	sampleRate := decodeSampleRate(factor, multiplier)

	dataOff := int(binary.BigEndian.Uint16(rec[44:46]))
	if dataOff == 0 || dataOff > len(rec) {
		dataOff = dataOffset
	}

	start := time.Date(year, 1, 1, hour, minute, second, tenThousandths*100000, time.UTC).AddDate(0, 0, doy-1)

	framesAvailable := (len(rec) - dataOff) / frameBytes
	samples, err := steim2Decode(rec[dataOff:], framesAvailable, nsamples)
	if err != nil {
		return Trace{}, err
	}

	return Trace{
		Key:        streamkey.Key{Network: network, Station: station, Location: location, Channel: channel},
		SampleRate: sampleRate,
		Start:      start,
		Samples:    samples,
	}, nil
}

func trimASCII(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == 0) {
		end--
	}
	return string(b[:end])
}
