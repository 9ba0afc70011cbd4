package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/runmseed/internal/seed"
	"github.com/roach88/runmseed/internal/store"
)

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)

	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "unknown profile", NewExitError(ExitCommandError, "unknown profile").Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "seeding failed", nil))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestIsReported(t *testing.T) {
	assert.False(t, IsReported(errors.New("plain")))
	assert.False(t, IsReported(NewExitError(ExitFailure, "x")))
	assert.True(t, IsReported(&ExitError{Code: ExitFailure, Message: "x", Reported: true}))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, seed.Summary{
		Profile: "1k-shared-compute",
		Reset:   true,
		Groups: []store.AppliedGroup{
			{Name: "shared-compute", Providers: 1000, Inventories: 3000},
		},
	})
	assert.Equal(t, "seeded 1 provider groups, 1000 providers, 3000 inventories from profile \"1k-shared-compute\"\n", buf.String())
}
