package strip

import "errors"

var (
	// ErrInvalidArgument is returned for out of range indices and channel
	// mismatches. The strip is never modified when it is returned.
	ErrInvalidArgument = errors.New("ledstrip: invalid argument")
	// ErrTransmitFailure wraps errors reported by Engine.Transmit.
	ErrTransmitFailure = errors.New("ledstrip: transmit failed")
	// ErrFailure wraps any other engine failure, e.g. from Engine.Release.
	ErrFailure = errors.New("ledstrip: failure")
)

// Result classifies the outcome of a strip operation.
type Result int

const (
	Success Result = iota
	InvalidArgument
	TransmitFailure
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case InvalidArgument:
		return "invalid argument"
	case TransmitFailure:
		return "transmit failure"
	}
	return "failure"
}

// ResultOf maps an error returned by a Strip method onto a Result.
func ResultOf(err error) Result {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument
	case errors.Is(err, ErrTransmitFailure):
		return TransmitFailure
	}
	return Failure
}
