package gait

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyChannel is returned when a required channel has no samples.
	ErrEmptyChannel = errors.New("empty channel")

	// ErrDegenerateSampleRate is returned when a channel has fewer than two
	// samples or spans zero time, so no sample rate can be derived.
	ErrDegenerateSampleRate = errors.New("degenerate sample rate")

	// ErrInvalidCutoff is returned when the normalized low-pass cutoff falls
	// outside (0, 1).
	ErrInvalidCutoff = errors.New("invalid low-pass cutoff")
)

// ChannelError attaches the offending channel name to a pipeline error.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %s: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

func channelError(channel string, err error) error {
	return &ChannelError{Channel: channel, Err: err}
}
