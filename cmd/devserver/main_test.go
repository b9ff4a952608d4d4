package main

import (
	"context"
	"testing"

	"fitmrp-client/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	t.Run("Stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := run(ctx, &config.Config{DevServerAddr: "127.0.0.1:0", JWTSecret: "s", DevSeed: false})
		assert.NoError(t, err)
	})

	t.Run("Bad address", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := run(ctx, &config.Config{DevServerAddr: "not-an-address", JWTSecret: "s"})
		assert.Error(t, err)
	})
}
