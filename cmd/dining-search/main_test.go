package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
)

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func TestCommands(t *testing.T) {
	app := newApp()

	require.NotNil(t, findCommand(app, "serve"))
	resolve := findCommand(app, "resolve")
	require.NotNil(t, resolve)

	var userFlag *cli.StringFlag
	for _, flag := range resolve.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == "user" {
			userFlag = f
		}
	}
	require.NotNil(t, userFlag)
	assert.True(t, userFlag.Required)
}

func TestResolveCommand_RequiresUser(t *testing.T) {
	app := newApp()
	err := app.Run([]string{"dining-search", "resolve", "Italian near Apollo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
}

func TestResolveCommand_RequiresQuery(t *testing.T) {
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run([]string{"dining-search", "resolve", "--user", "u-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query")
}

func TestRetryWithBackoff(t *testing.T) {
	log := zaptest.NewLogger(t)

	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	sentinel := errors.New("down")
	err = retryWithBackoff(func() error {
		calls++
		return sentinel
	}, 3, time.Millisecond, log, "dead op")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "dead op failed after 3 attempts")
	assert.Equal(t, 3, calls)
}
