package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"time"

	"github.com/jask/globalstate/internal/slice"
)

// ErrHandlerPanic indicates a reducer or inner middleware panicked during
// dispatch.
var ErrHandlerPanic = errors.New("dispatch panicked")

// Logging logs each action type, its outcome and how long it took. A nil
// logger discards output.
func Logging[S any](l *log.Logger) Middleware[S] {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	return func(_ func() S, next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, a slice.Action) error {
			start := time.Now()
			err := next(ctx, a)
			if err != nil {
				l.Printf("dispatch %s failed after %s: %v", a.Type, time.Since(start), err)
				return err
			}
			l.Printf("dispatch %s ok in %s", a.Type, time.Since(start))
			return nil
		}
	}
}

// Recover turns a panic further down the chain into an ErrHandlerPanic
// error. The state is left as it was before the dispatch.
func Recover[S any](l *log.Logger) Middleware[S] {
	return func(_ func() S, next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, a slice.Action) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if l != nil {
						l.Printf("dispatch %s panicked: %v\n%s", a.Type, r, debug.Stack())
					}
					err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, a.Type, r)
				}
			}()
			return next(ctx, a)
		}
	}
}
