package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMissingPositionalArgReturnsArgumentError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	assert.Equal(t, exitArgumentError, code)
}

func TestRunHelpReturnsOK(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
}

func TestRunUnreadableDemoReturnsDecodeFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"/nonexistent/path/to/demo.dem"}, &stdout, &stderr)
	assert.Equal(t, exitDecodeFailure, code)
	assert.Contains(t, stderr.String(), "nonexistent")
}

func TestRunRejectsUnknownOutputFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--output-format", "xml", "demo.dem"}, &stdout, &stderr)
	assert.Equal(t, exitArgumentError, code)
}
