// Package channels moves values between goroutines without ever blocking the
// producer longer than it asked for.
package channels

import (
	"errors"
)

var (
	ErrChannelClosed  = errors.New("channel closed")
	ErrChannelTimeout = errors.New("send timeout")
	ErrChannelFull    = errors.New("channel full")
	ErrNilChannel     = errors.New("channel cannot be nil")
)
