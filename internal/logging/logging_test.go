package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_FileJSON(t *testing.T) {
	logger := log.New()
	path := filepath.Join(t.TempDir(), "leavereason.log")

	closer, err := Configure(logger, Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.WithField("label", "Medical").Debug("predicted")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "predicted", entry["msg"])
	assert.Equal(t, "Medical", entry["label"])
}

func TestConfigure_DefaultsToStderrText(t *testing.T) {
	logger := log.New()
	closer, err := Configure(logger, Options{})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
	assert.Equal(t, os.Stderr, logger.Out)
	assert.IsType(t, &log.TextFormatter{}, logger.Formatter)
}

func TestConfigure_Invalid(t *testing.T) {
	_, err := Configure(log.New(), Options{Level: "shout"})
	assert.Error(t, err)

	_, err = Configure(log.New(), Options{Format: "xml"})
	assert.Error(t, err)
}
