package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Logger bundles the application's leveled loggers. A single Logger is
// constructed in main and handed to every component that needs one; there is
// no package-level logger state.
type Logger struct {
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger

	verbose bool
	logFile *os.File
}

// New initializes a Logger that writes to a log file in logDirectory and,
// when a console is attached, to stdout/stderr as well.
func New(logDirectory, logFileName string, verbose bool) (*Logger, error) {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(logDirectory, os.ModePerm); err != nil {
		fmt.Printf("Failed to create log directory: %v\n", err)
		return nil, err
	}

	// Open log file with O_SYNC to ensure no buffering
	logFile, err := os.OpenFile(filepath.Join(logDirectory, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0666)
	if err != nil {
		return nil, err
	}

	var infoWriter, warnWriter, errorWriter io.Writer
	if hasConsole() {
		infoWriter = io.MultiWriter(os.Stdout, logFile)
		warnWriter = io.MultiWriter(os.Stdout, logFile)
		errorWriter = io.MultiWriter(os.Stderr, logFile)
	} else {
		infoWriter = logFile
		warnWriter = logFile
		errorWriter = logFile
	}

	// Timestamps and source file info on every line
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		Info:    log.New(infoWriter, "INFO: ", flags),
		Warning: log.New(warnWriter, "WARN: ", flags),
		Error:   log.New(errorWriter, "ERROR: ", flags),
		verbose: verbose,
		logFile: logFile,
	}, nil
}

// NewConsole returns a Logger that writes to stdout/stderr only. Used before
// the log directory is known, and in tests.
func NewConsole(verbose bool) *Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		Info:    log.New(os.Stdout, "INFO: ", flags),
		Warning: log.New(os.Stdout, "WARN: ", flags),
		Error:   log.New(os.Stderr, "ERROR: ", flags),
		verbose: verbose,
	}
}

// Trace logs a debug message that only appears when verbose logging is enabled
func (l *Logger) Trace(format string, v ...interface{}) {
	if l.verbose {
		l.Info.Printf(format, v...)
	}
}

// Verbose reports whether verbose logging is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

func hasConsole() bool {
	return fileHasConsole(os.Stdout) || fileHasConsole(os.Stderr)
}

func fileHasConsole(f *os.File) bool {
	if f == nil {
		return false
	}

	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// Close closes the log file
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
}
