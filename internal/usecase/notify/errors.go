package notify

import "errors"

var (
	// ErrChannelDisabled is returned by Send on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidModel is returned by Send for a nil model or one without a name.
	ErrInvalidModel = errors.New("invalid model data")
)
