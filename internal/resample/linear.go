// linear.go
package resample

import (
	"fmt"
	"math"
)

// linearFilter holds the one piece of state linear interpolation needs:
// the last input sample per channel, carried across Process calls so a
// block boundary never produces a discontinuity.
type linearFilter struct {
	dirty     bool
	lastValue []float32
}

func newLinearFilterInternal(channels int) (*linearFilter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	return &linearFilter{lastValue: make([]float32, channels)}, nil
}

func newLinearState(channels int) (*srcState, ErrorCode) {
	if channels <= 0 {
		return nil, ErrBadChannelCount
	}

	state := &srcState{channels: channels}

	filter, err := newLinearFilterInternal(channels)
	if err != nil {
		return nil, ErrMallocFailed
	}
	state.privateData = filter
	state.vt = &linearStateVT

	if resetErr := state.Reset(); resetErr != nil {
		return nil, state.errCode
	}

	state.errCode = ErrNoError
	return state, ErrNoError
}

func linearReset(state *srcState) {
	if state == nil || state.privateData == nil {
		return
	}
	filter, ok := state.privateData.(*linearFilter)
	if !ok || filter == nil {
		return
	}
	filter.dirty = false
	for i := range filter.lastValue {
		filter.lastValue[i] = 0.0
	}
}

func linearClose(state *srcState) {
	if state == nil || state.privateData == nil {
		return
	}
	if _, ok := state.privateData.(*linearFilter); !ok {
		return
	}
	state.privateData = nil
}

func linearCopy(state *srcState) *srcState {
	if state == nil || state.privateData == nil {
		return nil
	}
	origFilter, ok := state.privateData.(*linearFilter)
	if !ok || origFilter == nil {
		return nil
	}

	newState := &srcState{}
	*newState = *state
	newFilter := &linearFilter{dirty: origFilter.dirty}

	if len(origFilter.lastValue) > 0 {
		newFilter.lastValue = make([]float32, len(origFilter.lastValue))
		copy(newFilter.lastValue, origFilter.lastValue)
	}

	newState.privateData = newFilter
	newState.errCode = ErrNoError
	return newState
}

var linearStateVT = srcStateVT{
	variProcess:  linearVariProcess,
	constProcess: linearVariProcess,
	reset:        linearReset,
	copy:         linearCopy,
	close:        linearClose,
}

// linearVariProcess performs linear interpolation between the previous
// and current input sample, ramping the ratio across the block when
// SrcRatio has changed since the last call (spec's variable-rate path,
// §4.2/§4.6).
func linearVariProcess(state *srcState, data *SrcData) ErrorCode {
	if data.InputFrames <= 0 {
		return ErrNoError
	}

	filter, ok := state.privateData.(*linearFilter)
	if !ok || filter == nil {
		return ErrBadState
	}

	inputIndex := state.lastPosition
	srcRatio := state.lastRatio

	inCountSamples := data.InputFrames * int64(state.channels)
	outCountSamples := data.OutputFrames * int64(state.channels)
	data.InputFramesUsed = 0
	data.OutputFramesGen = 0
	var inUsedSamples int64
	var outGenSamples int64

	if len(data.DataIn) == 0 {
		return ErrBadDataPtr
	}
	inputData := data.DataIn

	if !filter.dirty {
		if inCountSamples >= int64(state.channels) {
			copy(filter.lastValue, inputData[:state.channels])
			filter.dirty = true
		} else {
			return ErrBadData
		}
	}

	if isBadSrcRatio(srcRatio) {
		if isBadSrcRatio(data.SrcRatio) {
			return ErrBadSrcRatio
		}
		srcRatio = data.SrcRatio
		state.lastRatio = srcRatio
	}

	channels := state.channels

	for inputIndex < 1.0 && outGenSamples < outCountSamples {
		if outCountSamples > 0 && math.Abs(state.lastRatio-data.SrcRatio) > srcMinRatioDiff {
			srcRatio = state.lastRatio + float64(outGenSamples)*(data.SrcRatio-state.lastRatio)/float64(outCountSamples)
			if isBadSrcRatio(srcRatio) {
				if srcRatio < 1.0/srcMaxRatio {
					srcRatio = 1.0 / srcMaxRatio
				}
				if srcRatio > srcMaxRatio {
					srcRatio = srcMaxRatio
				}
			}
		}
		if srcRatio == 0 {
			return ErrBadSrcRatio
		}

		outPos := int(outGenSamples)
		if outPos+channels > len(data.DataOut) {
			break
		}

		for ch := 0; ch < channels; ch++ {
			lastVal := float64(filter.lastValue[ch])
			firstVal := float64(inputData[ch])
			data.DataOut[outPos+ch] = float32(lastVal + inputIndex*(firstVal-lastVal))
		}
		outGenSamples += int64(channels)
		inputIndex += 1.0 / srcRatio
	}

	initialFramesSkipped := int64(psfLrint(inputIndex - fmodOne(inputIndex)))
	inUsedSamples += initialFramesSkipped * int64(channels)
	inputIndex = fmodOne(inputIndex)

	for outGenSamples < outCountSamples {
		y1BaseIndex := inUsedSamples
		if y1BaseIndex+int64(channels) > inCountSamples {
			break
		}
		if y1BaseIndex < int64(channels) {
			break
		}
		y0BaseIndex := y1BaseIndex - int64(channels)

		if outCountSamples > 0 && math.Abs(state.lastRatio-data.SrcRatio) > srcMinRatioDiff {
			srcRatio = state.lastRatio + float64(outGenSamples)*(data.SrcRatio-state.lastRatio)/float64(outCountSamples)
			if isBadSrcRatio(srcRatio) {
				if srcRatio < 1.0/srcMaxRatio {
					srcRatio = 1.0 / srcMaxRatio
				}
				if srcRatio > srcMaxRatio {
					srcRatio = srcMaxRatio
				}
			}
		}
		if srcRatio == 0 {
			return ErrBadSrcRatio
		}

		outPos := int(outGenSamples)
		if outPos+channels > len(data.DataOut) {
			break
		}
		if y0BaseIndex < 0 || y1BaseIndex+int64(channels) > int64(len(inputData)) {
			return ErrBadInternalState
		}

		for ch := 0; ch < channels; ch++ {
			y0 := float64(inputData[y0BaseIndex+int64(ch)])
			y1 := float64(inputData[y1BaseIndex+int64(ch)])
			data.DataOut[outPos+ch] = float32(y0 + inputIndex*(y1-y0))
		}
		outGenSamples += int64(channels)

		inputIndex += 1.0 / srcRatio
		intInputAdvance := psfLrint(inputIndex - fmodOne(inputIndex))
		inUsedSamples += int64(intInputAdvance) * int64(channels)
		inputIndex = fmodOne(inputIndex)
	}

	if inUsedSamples > inCountSamples {
		overshotFrames := (inUsedSamples - inCountSamples) / int64(channels)
		inputIndex += float64(overshotFrames)
		inUsedSamples = inCountSamples
	}

	state.lastPosition = inputIndex

	if inUsedSamples >= int64(channels) {
		lastFrameOffset := inUsedSamples - int64(channels)
		if lastFrameOffset+int64(channels) <= int64(len(inputData)) {
			copy(filter.lastValue, inputData[lastFrameOffset:lastFrameOffset+int64(channels)])
			filter.dirty = true
		} else {
			return ErrBadInternalState
		}
	} else if !filter.dirty && inCountSamples >= int64(channels) {
		copy(filter.lastValue, inputData[:channels])
		filter.dirty = true
	}

	state.lastRatio = srcRatio
	data.InputFramesUsed = inUsedSamples / int64(channels)
	data.OutputFramesGen = outGenSamples / int64(channels)

	return ErrNoError
}
