package logger

import (
	"bytes"
	"testing"

	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	_, err := New("APP", config.ColorGreen, nil)
	assert.ErrorIs(t, err, ErrNoWriter)

	var buf bytes.Buffer
	l, err := New("PROGRESS", config.ColorCyan, &buf)
	require.NoError(t, err)

	l.Info("level up")
	l.Warning("slow store")
	l.Error("store down")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, config.ColorCyan+"[PROGRESS]"+config.ColorReset)
	assert.Contains(t, out, "[INFO]"+config.LogColorReset+" level up\n")
	assert.Contains(t, out, "[WARNING]"+config.LogColorReset+" slow store\n")
	assert.Contains(t, out, "[ERROR]"+config.LogColorReset+" store down\n")
	assert.NotContains(t, out, "hidden")

	l.SetDebug(true)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "[DEBUG]"+config.LogColorReset+" visible\n")
}
