package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, lv, err := New("warn", "json", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "carrier", "DIGITEL")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "DIGITEL", rec["carrier"])

	buf.Reset()
	lv.Set(slog.LevelDebug)
	log.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New("info", "text", &buf)
	require.NoError(t, err)
	log.Info("loaded", "records", 3)
	assert.Contains(t, buf.String(), "msg=loaded records=3")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New("info", "xml", nil)
	assert.Error(t, err)
}
