package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/backoffice/internal/app"
	_ "github.com/odyssey-erp/backoffice/testing"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	assert.True(t, app.InTestMode())
	assert.NotPanics(t, main)
}

func TestRunCommandRejectsUnknownCommands(t *testing.T) {
	assert.ErrorContains(t, runCommand(context.Background(), "127.0.0.1:0", []string{"purge"}), "unknown command")
	assert.ErrorContains(t, runCommand(context.Background(), "127.0.0.1:0", []string{"trigger"}), "usage")
}
