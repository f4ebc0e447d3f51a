package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("authconfig", &buf)

	l.Info("store loaded", "project", "keystone", "sources", 3)

	out := buf.String()
	assert.Contains(t, out, `"component":"authconfig"`)
	assert.Contains(t, out, `"project":"keystone"`)
	assert.Contains(t, out, `"sources":3`)
	assert.Contains(t, out, `"message":"store loaded"`)
}

func TestDefaultLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("authconfig", &buf)

	LoggerEnabled = false
	defer func() { LoggerEnabled = true }()

	l.Error("ignored")
	assert.Empty(t, buf.String())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("nothing", "k", "v")
	l.Warn("nothing")
}
