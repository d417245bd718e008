// Package logger provides ingestion-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// IngestLogger provides dedicated logging for feed-ingestion operations.
type IngestLogger struct {
	*logrus.Entry
}

// NewIngestLogger creates a new ingestion logger.
func NewIngestLogger(baseLogger *logrus.Logger) *IngestLogger {
	return &IngestLogger{
		Entry: baseLogger.WithField("component", "ingest"),
	}
}

// LogFeedSync logs a completed feed synchronization run.
func (il *IngestLogger) LogFeedSync(source string, fetched, stored, rejected int, started time.Time) {
	il.WithFields(logrus.Fields{
		"source":      source,
		"fetched":     fetched,
		"stored":      stored,
		"rejected":    rejected,
		"duration_ms": float64(time.Since(started).Milliseconds()),
	}).Info("Feed synchronization completed")
}

// LogRecordRejected logs a record dropped by ingestion validation.
func (il *IngestLogger) LogRecordRejected(source, recordType, reason string) {
	il.WithFields(logrus.Fields{
		"source":      source,
		"record_type": recordType,
		"reason":      reason,
	}).Warn("Record rejected during ingestion")
}
