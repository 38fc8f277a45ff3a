// resample.go
package resample

import (
	"math"
)

// Converter is an active sample rate converter instance: one per
// mixer.Resampler, created once by NewResampler and driven block-by-block
// for the life of a track (spec §4.2, §9 "Lifecycles").
type Converter interface {
	Process(data *SrcData) error
	Reset() error
	SetRatio(newRatio float64) error
	GetChannels() int
	Close() error
	LastError() error
	Clone() (Converter, error)
}

var _ Converter = (*srcState)(nil)

// New creates a converter of the given type for channels channels. mixer's
// srcResampler only ever passes Linear or SincBestQuality (see
// mixer/resampler.go), but the dispatch below still serves every Sinc
// quality tier since they share sinc.go's state machine.
func New(converterType ConverterType, channels int) (Converter, error) {
	state, errCode := psrcSetConverter(converterType, channels)
	if errCode != ErrNoError {
		return nil, mapError(errCode)
	}
	return state, nil
}

// Process runs one conversion block, choosing the constant- or
// variable-ratio path depending on whether SrcRatio changed since the
// last call.
func (state *srcState) Process(data *SrcData) error {
	if state == nil {
		return mapError(ErrBadState)
	}
	if data == nil {
		state.errCode = ErrBadData
		return mapError(ErrBadData)
	}
	if (data.InputFrames > 0 && len(data.DataIn) == 0) || (data.OutputFrames > 0 && len(data.DataOut) == 0) {
		state.errCode = ErrBadDataPtr
		return mapError(ErrBadDataPtr)
	}
	if isBadSrcRatio(data.SrcRatio) {
		state.errCode = ErrBadSrcRatio
		return mapError(ErrBadSrcRatio)
	}

	if data.InputFrames < 0 {
		data.InputFrames = 0
	}
	if data.OutputFrames < 0 {
		data.OutputFrames = 0
	}
	data.InputFramesUsed = 0
	data.OutputFramesGen = 0

	if state.lastRatio < (1.0 / srcMaxRatio) {
		state.lastRatio = data.SrcRatio
	}

	var errCode ErrorCode
	switch {
	case state.vt == nil:
		errCode = ErrBadState
	case math.Abs(state.lastRatio-data.SrcRatio) < 1e-15:
		if state.vt.constProcess == nil {
			errCode = ErrBadProcPtr
		} else {
			errCode = state.vt.constProcess(state, data)
		}
	default:
		if state.vt.variProcess == nil {
			errCode = ErrBadProcPtr
		} else {
			errCode = state.vt.variProcess(state, data)
		}
	}

	state.errCode = errCode
	return mapError(errCode)
}

// Reset clears the converter's internal history and its stored ratio and
// position, so the next Process call behaves as on a fresh converter.
func (state *srcState) Reset() error {
	if state == nil {
		return mapError(ErrBadState)
	}
	if state.vt == nil || state.vt.reset == nil {
		state.errCode = ErrBadProcPtr
		return mapError(ErrBadProcPtr)
	}
	state.vt.reset(state)
	state.lastPosition = 0.0
	state.lastRatio = 0.0
	state.errCode = ErrNoError
	return nil
}

// SetRatio updates the target ratio for the next Process call.
func (state *srcState) SetRatio(newRatio float64) error {
	if state == nil {
		return mapError(ErrBadState)
	}
	if isBadSrcRatio(newRatio) {
		state.errCode = ErrBadSrcRatio
		return mapError(ErrBadSrcRatio)
	}
	state.lastRatio = newRatio
	state.errCode = ErrNoError
	return nil
}

// GetChannels returns the channel count the converter was created with.
func (state *srcState) GetChannels() int {
	if state == nil {
		return 0
	}
	return state.channels
}

// Close releases the converter-specific filter state.
func (state *srcState) Close() error {
	if state == nil {
		return nil
	}
	if state.vt != nil && state.vt.close != nil {
		state.vt.close(state)
	}
	state.privateData = nil
	state.vt = nil
	state.errCode = ErrBadState
	return nil
}

// LastError returns the most recent error this converter recorded.
func (state *srcState) LastError() error {
	if state == nil {
		return mapError(ErrNoError)
	}
	return mapError(state.errCode)
}

// Clone deep-copies the converter, including its filter state, so the
// copy can be driven without disturbing the original.
func (state *srcState) Clone() (Converter, error) {
	if state == nil {
		return nil, mapError(ErrBadState)
	}
	if state.vt == nil || state.vt.copy == nil {
		state.errCode = ErrBadProcPtr
		return nil, mapError(ErrBadProcPtr)
	}

	newState := state.vt.copy(state)
	if newState == nil {
		err := mapError(state.errCode)
		if state.errCode == ErrNoError {
			err = mapError(ErrMallocFailed)
		}
		return nil, err
	}
	return newState, nil
}

// psrcSetConverter selects and initializes the per-type filter state.
func psrcSetConverter(converterType ConverterType, channels int) (*srcState, ErrorCode) {
	var state *srcState
	var errCode ErrorCode

	switch converterType {
	case SincBestQuality:
		if !enableSincBestConverter {
			return nil, ErrBadConverter
		}
		state, errCode = newSincState(converterType, channels)
	case SincMediumQuality:
		if !enableSincMediumConverter {
			return nil, ErrBadConverter
		}
		state, errCode = newSincState(converterType, channels)
	case SincFastest:
		if !enableSincFastConverter {
			return nil, ErrBadConverter
		}
		state, errCode = newSincState(converterType, channels)
	case Linear:
		state, errCode = newLinearState(channels)
	default:
		return nil, ErrBadConverter
	}

	return state, errCode
}
