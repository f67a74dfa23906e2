package dsp

import (
	"errors"
	"math"

	"github.com/dudk/squelch"
)

// ErrShortReference is returned when a stationary reference holds fewer
// samples than the frame.
var ErrShortReference = errors.New("noise reference shorter than frame")

// Reducer attenuates broadband noise in a frame. Implementations must
// return a frame of the same length as the input.
type Reducer interface {
	// Adaptive estimates the noise characteristics from the frame itself.
	// strength is the proportion of noise to remove, [0, 1].
	Adaptive(frame squelch.Buffer, strength float64) (squelch.Buffer, error)

	// Stationary uses a pre-learned noise reference of at least the
	// frame's length. threshold scales how far above the reference level
	// a block must rise to be treated as signal.
	Stationary(frame, reference squelch.Buffer, strength, threshold float64) (squelch.Buffer, error)
}

const (
	// reduceBlock is the granularity of level estimation within a frame.
	reduceBlock = 64

	// adaptiveMargin lifts the in-frame floor estimate to a suppression
	// limit, compensating for the floor being a minimum statistic.
	adaptiveMargin = 2.0
)

// gateReducer implements Reducer with block-wise noise-floor gating:
// blocks at or below the estimated noise level are attenuated by the full
// strength, blocks above it proportionally less.
type gateReducer struct{}

// NewReducer returns the default noise reducer.
func NewReducer() Reducer {
	return gateReducer{}
}

func (gateReducer) Adaptive(frame squelch.Buffer, strength float64) (squelch.Buffer, error) {
	limit := noiseFloor(frame) * adaptiveMargin
	suppress(frame, strength, limit)
	return frame, nil
}

func (gateReducer) Stationary(frame, reference squelch.Buffer, strength, threshold float64) (squelch.Buffer, error) {
	if len(reference) < len(frame) {
		return nil, ErrShortReference
	}
	mu, sigma := blockStats(reference[:len(frame)])
	suppress(frame, strength, mu+threshold*sigma)
	return frame, nil
}

// suppress scales each block by a gain derived from its level relative to
// limit. Blocks at or below limit are scaled by 1-strength, louder blocks
// approach unity.
func suppress(frame squelch.Buffer, strength, limit float64) {
	if strength <= 0 || limit <= 0 {
		return
	}
	forEachBlock(frame, func(block squelch.Buffer) {
		level := block.RMS()
		g := 1 - strength
		if level > limit {
			g = 1 - strength*limit/level
		}
		block.Scale(g)
	})
}

// noiseFloor estimates the noise level of a frame as its quietest block.
func noiseFloor(frame squelch.Buffer) float64 {
	floor := math.Inf(1)
	forEachBlock(frame, func(block squelch.Buffer) {
		if level := block.RMS(); level < floor {
			floor = level
		}
	})
	if math.IsInf(floor, 1) {
		return 0
	}
	return floor
}

// blockStats returns the mean and standard deviation of block levels.
func blockStats(b squelch.Buffer) (mu, sigma float64) {
	var levels []float64
	forEachBlock(b, func(block squelch.Buffer) {
		levels = append(levels, block.RMS())
	})
	if len(levels) == 0 {
		return 0, 0
	}
	for _, l := range levels {
		mu += l
	}
	mu /= float64(len(levels))
	for _, l := range levels {
		sigma += (l - mu) * (l - mu)
	}
	sigma = math.Sqrt(sigma / float64(len(levels)))
	return mu, sigma
}

func forEachBlock(b squelch.Buffer, fn func(squelch.Buffer)) {
	for start := 0; start < len(b); start += reduceBlock {
		end := start + reduceBlock
		if end > len(b) {
			end = len(b)
		}
		fn(b[start:end])
	}
}
