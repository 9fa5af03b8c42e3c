package testutil

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestLogger creates a logger routed through t.Log, so client
// diagnostics only surface when a test fails.
func NewTestLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
}
