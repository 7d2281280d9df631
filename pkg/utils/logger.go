package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	ui "github.com/alantheprice/idekit/pkg/ui"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes the run log and mirrors user-relevant steps to the console.
type Logger struct {
	logger        *log.Logger
	closer        io.Closer
	jsonMode      bool
	correlationID string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// LogFilePath returns where the rotating run log lives.
func LogFilePath() string {
	if p := os.Getenv("IDEKIT_LOG_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".idekit", "idekit.log")
	}
	return filepath.Join(home, ".idekit", "idekit.log")
}

// GetLogger returns the singleton instance of Logger.
// It initializes the logger with a file handler that rotates logs.
func GetLogger() *Logger {
	once.Do(func() {
		logFile := &lumberjack.Logger{
			Filename:   LogFilePath(),
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = newLogger(logFile)
		globalLogger.closer = logFile
	})
	return globalLogger
}

// NewLogger creates a standalone logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return newLogger(w)
}

func newLogger(w io.Writer) *Logger {
	l := &Logger{
		logger:        log.New(w, "", log.LstdFlags),
		correlationID: os.Getenv("IDEKIT_CORRELATION_ID"),
	}
	if os.Getenv("IDEKIT_JSON_LOGS") == "1" {
		l.jsonMode = true
	}
	if l.correlationID == "" {
		l.correlationID = uuid.NewString()
	}
	return l
}

// Close closes the logger resources.
func (w *Logger) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// CorrelationID identifies every record written during this run.
func (w *Logger) CorrelationID() string { return w.correlationID }

func (w *Logger) write(level, message string) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": level, "msg": message, "cid": w.correlationID})
		return
	}
	if level == "info" {
		w.logger.Print(message)
		return
	}
	w.logger.Printf("[%s] %s", level, message)
}

// Log logs a general message only to the log file.
func (w *Logger) Log(message string) {
	w.write("info", message)
}

// Logf logs a formatted general message only to the log file.
func (w *Logger) Logf(format string, v ...interface{}) {
	w.Log(fmt.Sprintf(format, v...))
}

func (w *Logger) LogError(err error) {
	if w.jsonMode {
		_ = json.NewEncoder(w.logger.Writer()).Encode(map[string]any{"level": "error", "error": err.Error(), "cid": w.correlationID})
		return
	}
	w.logger.Printf("Error: %s", err)
}

// LogProcessStep logs the current step and prints it.
func (w *Logger) LogProcessStep(step string) {
	w.write("info", "Process Step: "+step)
	if !ui.Quiet() {
		ui.Out().Print(ui.Styled(ui.Styles().Step, step) + "\n")
	}
}

// LogWarning logs a warning and always prints it.
func (w *Logger) LogWarning(message string) {
	w.write("warn", message)
	ui.Out().Print(ui.Styled(ui.Styles().Warning, "Warning:") + " " + message + "\n")
}

// LogUserInteraction logs a message the user must read, and prints to stdout.
func (w *Logger) LogUserInteraction(message string) {
	w.write("info", "User Interaction: "+message)
	ui.Out().Print(message + "\n")
}
