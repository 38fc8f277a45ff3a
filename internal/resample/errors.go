// errors.go
package resample

import "fmt"

// ConverterError reports a failure from the resample backend. It carries
// the internal ErrorCode so a caller outside this package — mixer's
// srcResampler, specifically — can fold the failure into its own error
// taxonomy (mixer.EngineError) instead of only having an opaque string,
// the same relationship libsamplerate.ErrorCode had to samplerate.c's
// src_strerror before this package was split out of the mixdown module.
type ConverterError struct {
	Code ErrorCode
	msg  string
}

func (e *ConverterError) Error() string { return e.msg }

// mapError converts an internal ErrorCode to a *ConverterError, or nil
// for ErrNoError.
func mapError(code ErrorCode) error {
	if code == ErrNoError {
		return nil
	}
	msg := getErrorString(code)
	if msg == "" {
		msg = "unknown error"
	}
	return &ConverterError{Code: code, msg: fmt.Sprintf("resample: %s", msg)}
}

func getErrorString(code ErrorCode) string {
	switch code {
	case ErrNoError:
		return "no error"
	case ErrMallocFailed:
		return "memory allocation failed"
	case ErrBadState:
		return "invalid converter state"
	case ErrBadData:
		return "invalid SrcData provided"
	case ErrBadDataPtr:
		return "input or output buffer is nil/empty"
	case ErrBadSrcRatio:
		return fmt.Sprintf("SRC ratio outside [1/%s, %s] range", srcMaxRatioStr, srcMaxRatioStr)
	case ErrBadProcPtr:
		return "internal error: invalid processing function"
	case ErrBadConverter:
		return "invalid converter type specified"
	case ErrBadChannelCount:
		return "channel count must be >= 1"
	case ErrSincPrepareDataBadLen:
		return "internal error: bad length in sinc prepare_data"
	case ErrBadInternalState:
		return "internal error: inconsistent state detected"
	default:
		return ""
	}
}
