// Package clipboard adapts the system clipboard to the composer's copy action.
package clipboard

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard capability exists.
var ErrUnavailable = errors.New("clipboard: unavailable")

// Writer writes plain text to a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type System struct{}

// NewSystem returns the system clipboard writer, or nil when the platform has
// no supported clipboard utility.
func NewSystem() Writer {
	if clipboard.Unsupported {
		return nil
	}
	return System{}
}

// WriteText implements Writer.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Func adapts a function to Writer.
type Func func(ctx context.Context, text string) error

// WriteText implements Writer.
func (f Func) WriteText(ctx context.Context, text string) error {
	return f(ctx, text)
}
