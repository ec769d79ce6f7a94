package logger

import (
	"context"
	"fmt"
	"time"

	common_models "sk-pengajuan/internal/common/models"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	ActorID   string
	Caller    string
}

// LogInserter persists one log record. The Mongo "logs" collection satisfies it in production.
type LogInserter func(ctx context.Context, record common_models.Log) error

// DBLogWriter handles the async writing
type DBLogWriter struct {
	insert  LogInserter
	logChan chan LogEntry
	done    chan struct{}
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(insert LogInserter, appId string) *DBLogWriter {
	writer := &DBLogWriter{
		insert:  insert,
		logChan: make(chan LogEntry, 1000),
		done:    make(chan struct{}),
		appId:   appId,
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// never block the request path on a slow database
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (w *DBLogWriter) Close() {
	close(w.logChan)
	<-w.done
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := common_models.Log{
			Message:      entry.Message,
			IpAddress:    entry.IpAddress,
			ActorID:      entry.ActorID,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			AppId:        w.appId,
			CreatedOnUtc: time.Now().UTC(),
		}

		// errors are dropped to keep the app running
		_ = w.insert(context.Background(), record)
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
