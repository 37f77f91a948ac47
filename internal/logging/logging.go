package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saltyorg/company/internal/config"
)

const (
	DefaultLogFilePath = "company.log"
	DefaultLevel       = zerolog.WarnLevel
	DefaultMaxSizeMB   = 10
	DefaultMaxBackups  = 3
	DefaultMaxAgeDays  = 30
	DefaultCompress    = true
)

const timeFormat = "2006-01-02 15:04:05"

// Console is where human-readable log lines go. Stdout belongs to the menu.
var Console io.Writer = os.Stderr

var (
	fileMu sync.Mutex
	file   *lumberjack.Logger
)

// Apply sets the global log level and output writers (console + rotating file).
// logFilePath is the destination file; when empty, a default filename in the current working directory is used.
// Repeated calls for the same path reuse one open file and only update its rotation limits.
func Apply(level string, loader *config.Loader, logFilePath string) {
	zerolog.SetGlobalLevel(ParseLevel(level))

	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	console := zerolog.ConsoleWriter{Out: Console, TimeFormat: timeFormat}
	w, err := rotatingFile(logFilePath, rotationFrom(loader))
	if err != nil {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	plain := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat, NoColor: true}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, plain)).With().Timestamp().Logger()
}

// Close releases the log file, if one is open.
func Close() error {
	fileMu.Lock()
	defer fileMu.Unlock()
	return closeFile()
}

// ParseLevel maps a level name to a zerolog level, falling back to DefaultLevel.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return DefaultLevel
	}
	return lvl
}

// LevelForVerbosity turns a -v count into a level name; zero keeps fallback.
func LevelForVerbosity(verbosity int, fallback string) string {
	switch {
	case verbosity <= 0:
		return fallback
	case verbosity == 1:
		return zerolog.DebugLevel.String()
	default: // 2+
		return zerolog.TraceLevel.String()
	}
}

// rotation holds the lumberjack limits read from settings.
type rotation struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
}

func rotationFrom(loader *config.Loader) rotation {
	r := rotation{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   DefaultCompress,
	}
	if loader == nil {
		return r
	}
	// Out-of-range values keep the defaults
	if v := loader.Int("log.max_size_mb", r.maxSizeMB); v > 0 {
		r.maxSizeMB = v
	}
	if v := loader.Int("log.max_backups", r.maxBackups); v >= 0 {
		r.maxBackups = v
	}
	if v := loader.Int("log.max_age_days", r.maxAgeDays); v >= 0 {
		r.maxAgeDays = v
	}
	r.compress = loader.Bool("log.compress", r.compress)
	return r
}

// rotatingFile returns the process-wide writer for path. A writer for a
// different path is closed first; nothing may log between that close and the
// logger swap in Apply, since lumberjack reopens a closed file on write.
func rotatingFile(path string, r rotation) (*lumberjack.Logger, error) {
	fileMu.Lock()
	defer fileMu.Unlock()

	if file != nil && file.Filename != path {
		_ = closeFile()
	}
	if file == nil {
		if err := ensureLogDir(path); err != nil {
			return nil, err
		}
		file = &lumberjack.Logger{Filename: path}
	}

	file.MaxSize = r.maxSizeMB
	file.MaxBackups = r.maxBackups
	file.MaxAge = r.maxAgeDays
	file.Compress = r.compress
	return file, nil
}

// closeFile must be called with fileMu held.
func closeFile() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// FilePathForDB returns a log file path that lives alongside the database file.
func FilePathForDB(dbPath string) string {
	if dbPath == "" {
		return DefaultLogFilePath
	}
	absDBPath, err := filepath.Abs(dbPath)
	if err != nil {
		return filepath.Join(filepath.Dir(dbPath), DefaultLogFilePath)
	}
	return filepath.Join(filepath.Dir(absDBPath), DefaultLogFilePath)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
