package service

import (
	"context"
	"errors"
	"fmt"
)

// SendThenPersist delivers a token-bearing email before storing the record
// the token refers to.
//
//  1. A send failure aborts: nothing is persisted and the error wraps
//     ErrDeliveryFailed.
//  2. A persist failure after a successful send runs compensate (when
//     non-nil) and returns the persist error joined with any compensation
//     error.
//
// A recipient can therefore hold a token that was never stored. It verifies
// as NOT_FOUND, which is the same outcome as a withdrawn token.
func SendThenPersist(ctx context.Context, send, persist, compensate func(context.Context) error) error {
	if err := send(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	perr := persist(ctx)
	if perr == nil {
		return nil
	}
	if compensate == nil {
		return perr
	}
	if cerr := compensate(ctx); cerr != nil {
		return errors.Join(perr, fmt.Errorf("compensation failed: %w", cerr))
	}
	return perr
}
