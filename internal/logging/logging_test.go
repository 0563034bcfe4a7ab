package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/admin-console/internal/model"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")

	l, err := New(model.LogConfig{File: path, Level: "debug", MaxSizeMB: 1, MaxBackups: 1}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("operation", "systemNotificationCreate").Info("saved")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operation":"systemNotificationCreate"`)
	assert.Contains(t, string(data), `"msg":"saved"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(model.LogConfig{File: filepath.Join(t.TempDir(), "x.log"), Level: "chatty"}, false)
	assert.Error(t, err)
}
