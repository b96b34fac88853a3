package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, charmlog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, charmlog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, charmlog.InfoLevel, ParseLevel(""))
	assert.Equal(t, charmlog.InfoLevel, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, JSON: true})
	l.Info("segmented", "sentences", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "segmented", line["msg"])
	assert.EqualValues(t, 3, line["sentences"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: "warn"})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
