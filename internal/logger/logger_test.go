package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"job-portal-api/internal/config"

	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("dropped")
	require.Zero(t, buf.Len())

	log.Warn().Str("key", "job_1").Msg("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["message"])
	require.Equal(t, "job_1", line["key"])
	require.Equal(t, "job-portal-api", line["service"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "json"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestGormLevel(t *testing.T) {
	require.Equal(t, gormlogger.Silent, GormLevel("silent"))
	require.Equal(t, gormlogger.Info, GormLevel("info"))
	require.Equal(t, gormlogger.Warn, GormLevel("anything"))
}
