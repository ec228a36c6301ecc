package logging

import (
	"io"
	"log/slog"
	"os"
)

var logFile *os.File

// Init initializes the logging system. Diagnostics go to stderr only;
// stdout may be carrying raw capture bytes. Verbose lowers the level to
// debug, and logFilePath, when set, receives a copy of every line.
func Init(verbose bool, logFilePath string) error {
	var w io.Writer = os.Stderr
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		logFile = file
		w = io.MultiWriter(os.Stderr, file)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// Close releases the log file if one was opened.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
