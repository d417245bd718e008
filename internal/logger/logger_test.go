package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("warn")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestSolverLoggerSystemBuilt(t *testing.T) {
	log, buf := setupTestLogger()
	solverLogger := NewSolverLogger(log)

	solverLogger.LogSystemBuilt(2025, 720, 133, 3)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "solver", entry["component"])
	assert.Equal(t, float64(720), entry["equations"])
	assert.Equal(t, float64(133), entry["teams"])
	assert.Equal(t, float64(3), entry["filtered"])
}

func TestSolverLoggerBlendSelected(t *testing.T) {
	log, buf := setupTestLogger()
	solverLogger := NewSolverLogger(log)

	solverLogger.LogBlendSelected(0.35, 0.71, 0.42, false, false, true)

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, 0.35, entry["weight"])
	assert.Equal(t, true, entry["sanity_failed"])
	assert.Equal(t, false, entry["floor_forced"])
}

func TestIngestLoggerFeedSync(t *testing.T) {
	log, buf := setupTestLogger()
	ingestLogger := NewIngestLogger(log)

	ingestLogger.LogFeedSync("games", 850, 842, 8, time.Now().Add(-2*time.Second))

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, float64(850), entry["fetched"])
	assert.Equal(t, float64(8), entry["rejected"])
}

func TestIngestLoggerRecordRejected(t *testing.T) {
	log, buf := setupTestLogger()
	ingestLogger := NewIngestLogger(log)

	ingestLogger.LogRecordRejected("games", "game", "non_positive_row_weight")

	entry := parseLogOutput(buf)
	require.NotNil(t, entry)
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "non_positive_row_weight", entry["reason"])
}
