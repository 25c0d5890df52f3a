// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import (
	"encoding/binary"
	"fmt"
)

// frameBytes is the size of one STEIM2 frame: 16 big-endian uint32 words.
const frameBytes = 64
const wordsPerFrame = 16

// steim2Encode packs samples (as successive differences from an implicit
// predecessor of 0) into nFrames STEIM2 frames. It returns the encoded
// bytes, the first sample value (X0), and the last sample value (Xn).
func steim2Encode(samples []int32, nFrames int) ([]byte, int32, int32, error) {
	if len(samples) == 0 {
		return make([]byte, nFrames*frameBytes), 0, 0, nil
	}

	diffs := make([]int32, len(samples))
	diffs[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		d := int64(samples[i]) - int64(samples[i-1])
		if d > (1<<31)-1 || d < -(1<<31) {
			return nil, 0, 0, fmt.Errorf("mseed: sample difference %d overflows int32", d)
		}
		diffs[i] = int32(d)
	}

	out := make([]byte, nFrames*frameBytes)
	diffIdx := 0

	for frame := 0; frame < nFrames && diffIdx < len(diffs); frame++ {
		nibbles := make([]uint32, wordsPerFrame)
		words := make([]uint32, wordsPerFrame)

		firstDataWord := 1
		if frame == 0 {
			firstDataWord = 3
		}

		for w := firstDataWord; w < wordsPerFrame && diffIdx < len(diffs); w++ {
			code, _, packed, consumed := packGroup(diffs[diffIdx:])
			words[w] = packed
			nibbles[w] = code
			diffIdx += consumed
		}

		binary.BigEndian.PutUint32(out[frame*frameBytes:], packNibbleWord(nibbles))
		if frame == 0 {
			binary.BigEndian.PutUint32(out[frame*frameBytes+4:], uint32(samples[0]))
			binary.BigEndian.PutUint32(out[frame*frameBytes+8:], uint32(samples[len(samples)-1]))
		}
		for w := firstDataWord; w < wordsPerFrame; w++ {
			binary.BigEndian.PutUint32(out[frame*frameBytes+w*4:], words[w])
		}
	}

	if diffIdx < len(diffs) {
		return nil, 0, 0, fmt.Errorf("mseed: %d frames insufficient for %d samples", nFrames, len(samples))
	}

	return out, samples[0], samples[len(samples)-1], nil
}

// packGroup chooses the largest group of leading diffs that fits one
// STEIM2 data word, preferring the densest encoding (most diffs per word).
// It returns the word's 2-bit nibble code, the sub-selector (dnib) used
// within code 2/3 words, the packed 32-bit word, and how many diffs were
// consumed.
func packGroup(diffs []int32) (code, dnib, packed uint32, consumed int) {
	type tier struct {
		code, dnib   uint32
		count, width int
	}
	tiers := []tier{
		{3, 2, 7, 4},
		{3, 1, 6, 5},
		{3, 0, 5, 6},
		{1, 0, 4, 8},
		{2, 3, 3, 10},
		{2, 2, 2, 15},
		{2, 1, 1, 30},
	}

	for _, t := range tiers {
		n := t.count
		if n > len(diffs) {
			n = len(diffs)
		}
		if n == 0 {
			continue
		}
		if !allFitSigned(diffs[:n], t.width) {
			continue
		}
		return t.code, t.dnib, packWord(t.code, t.dnib, diffs[:n], t.width), n
	}

	// Fallback: single 30-bit diff, truncated view (should always fit
	// int32 range since width 30 already covers it above for n==1).
	return 2, 1, packWord(2, 1, diffs[:1], 30), 1
}

func allFitSigned(values []int32, width int) bool {
	if width >= 32 {
		return true
	}
	limit := int64(1) << (width - 1)
	for _, v := range values {
		if int64(v) >= limit || int64(v) < -limit {
			return false
		}
	}
	return true
}

// packWord packs n signed values of the given bit width into a 32-bit
// word, MSB-first, using two's complement truncated to width bits. For
// code-3 words, the top two bits (the dnib) precede the packed values;
// for code-2 words, the dnib also occupies the top two bits.
func packWord(code, dnib uint32, values []int32, width int) uint32 {
	var word uint32
	var usedBits int
	switch code {
	case 1:
		usedBits = 32
	default:
		word |= dnib << 30
		usedBits = 30
	}

	shift := usedBits
	for _, v := range values {
		shift -= width
		word |= (uint32(v) & mask(width)) << shift
	}
	return word
}

func mask(width int) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}
	return (1 << width) - 1
}

// packNibbleWord assembles the 16 2-bit nibbles (word 0's control word),
// nibble[0] is always 0 (the control word describes itself as unused).
func packNibbleWord(nibbles []uint32) uint32 {
	var word uint32
	for i, n := range nibbles {
		shift := 30 - i*2
		word |= (n & 0x3) << shift
	}
	return word
}

// steim2Decode reconstructs nSamples int32 values from nFrames STEIM2
// frames starting at data.
func steim2Decode(data []byte, nFrames, nSamples int) ([]int32, error) {
	if nSamples == 0 {
		return nil, nil
	}
	if len(data) < nFrames*frameBytes {
		return nil, fmt.Errorf("mseed: steim2 data too short: have %d bytes, want %d", len(data), nFrames*frameBytes)
	}

	samples := make([]int32, 0, nSamples)
	var current int64
	started := false

	for frame := 0; frame < nFrames && len(samples) < nSamples; frame++ {
		base := frame * frameBytes
		nibbleWord := binary.BigEndian.Uint32(data[base:])
		nibbles := unpackNibbleWord(nibbleWord)

		firstDataWord := 1
		if frame == 0 {
			firstDataWord = 3
			x0 := int32(binary.BigEndian.Uint32(data[base+4:]))
			current = int64(x0)
		}

		for w := firstDataWord; w < wordsPerFrame && len(samples) < nSamples; w++ {
			word := binary.BigEndian.Uint32(data[base+w*4:])
			diffs, err := unpackWord(nibbles[w], word)
			if err != nil {
				return nil, err
			}
			for _, d := range diffs {
				if len(samples) >= nSamples {
					break
				}
				if !started {
					current = int64(d)
					started = true
				} else {
					current += int64(d)
				}
				samples = append(samples, int32(current))
			}
		}
	}

	if len(samples) != nSamples {
		return nil, fmt.Errorf("mseed: steim2 decode produced %d samples, want %d", len(samples), nSamples)
	}
	return samples, nil
}

func unpackNibbleWord(word uint32) [wordsPerFrame]uint32 {
	var nibbles [wordsPerFrame]uint32
	for i := 0; i < wordsPerFrame; i++ {
		shift := 30 - i*2
		nibbles[i] = (word >> shift) & 0x3
	}
	return nibbles
}

func unpackWord(code, word uint32) ([]int32, error) {
	switch code {
	case 0:
		return nil, nil
	case 1:
		return unpackFixed(word, 32, 4, 8), nil
	case 2:
		dnib := (word >> 30) & 0x3
		switch dnib {
		case 1:
			return unpackFixed(word, 30, 1, 30), nil
		case 2:
			return unpackFixed(word, 30, 2, 15), nil
		case 3:
			return unpackFixed(word, 30, 3, 10), nil
		default:
			return nil, fmt.Errorf("mseed: steim2 unused dnib 0 for code 2")
		}
	case 3:
		dnib := (word >> 30) & 0x3
		switch dnib {
		case 0:
			return unpackFixed(word, 30, 5, 6), nil
		case 1:
			return unpackFixed(word, 30, 6, 5), nil
		case 2:
			return unpackFixed(word, 30, 7, 4), nil
		default:
			return nil, fmt.Errorf("mseed: steim2 unused dnib 3 for code 3")
		}
	default:
		return nil, fmt.Errorf("mseed: impossible nibble code %d", code)
	}
}

// unpackFixed extracts count signed values of width bits each from word,
// MSB-first, starting usedBits below the top of the word.
func unpackFixed(word uint32, usedBits, count, width int) []int32 {
	out := make([]int32, count)
	shift := usedBits
	for i := 0; i < count; i++ {
		shift -= width
		raw := (word >> shift) & mask(width)
		out[i] = signExtend(raw, width)
	}
	return out
}

func signExtend(raw uint32, width int) int32 {
	signBit := uint32(1) << (width - 1)
	if raw&signBit != 0 {
		return int32(raw | ^mask(width))
	}
	return int32(raw)
}
