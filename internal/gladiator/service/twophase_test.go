package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendThenPersist(t *testing.T) {
	ctx := context.Background()
	errSend := errors.New("smtp down")
	errPersist := errors.New("disk full")
	errComp := errors.New("still down")

	t.Run("send failure persists nothing", func(t *testing.T) {
		persisted := false
		err := SendThenPersist(ctx,
			func(context.Context) error { return errSend },
			func(context.Context) error { persisted = true; return nil },
			nil)
		require.ErrorIs(t, err, ErrDeliveryFailed)
		require.ErrorIs(t, err, errSend)
		require.False(t, persisted)
	})

	t.Run("persist failure runs compensation", func(t *testing.T) {
		compensated := false
		err := SendThenPersist(ctx,
			func(context.Context) error { return nil },
			func(context.Context) error { return errPersist },
			func(context.Context) error { compensated = true; return nil })
		require.ErrorIs(t, err, errPersist)
		require.True(t, compensated)
	})

	t.Run("both errors surface", func(t *testing.T) {
		err := SendThenPersist(ctx,
			func(context.Context) error { return nil },
			func(context.Context) error { return errPersist },
			func(context.Context) error { return errComp })
		require.ErrorIs(t, err, errPersist)
		require.ErrorIs(t, err, errComp)
	})

	t.Run("success skips compensation", func(t *testing.T) {
		err := SendThenPersist(ctx,
			func(context.Context) error { return nil },
			func(context.Context) error { return nil },
			func(context.Context) error { t.Fatal("compensate called"); return nil })
		require.NoError(t, err)
	})
}
