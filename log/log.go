package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog        zerolog.Logger
	diagFile       *os.File
	transcribeFile *os.File
	logMu          sync.Mutex
	fileReady      bool
	pid            int
	dir            string
)

func init() {
	pid = os.Getpid()
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
	diagLog = zerolog.New(console).With().Timestamp().Int("pid", pid).Logger()
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		diagLog = diagLog.Level(lvl)
	}
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: VTYPE_LOG_PATH environment variable
	envPath := os.Getenv("VTYPE_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// Init switches diagnostics to a file in the log directory and opens the
// transcript log. Console-only logging works without it.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	transcribePath := filepath.Join(dir, "transcribe_log.txt")
	transcribeFile, err = os.OpenFile(transcribePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	console := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(zerolog.MultiLevelWriter(console, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	})).With().Timestamp().Int("pid", pid).Logger()

	fileReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if transcribeFile != nil {
		transcribeFile.Close()
		transcribeFile = nil
	}
	fileReady = false
}

func Info(msg string) {
	diagLog.Info().Msg(msg)
}

func Infof(format string, args ...any) {
	diagLog.Info().Msg(fmt.Sprintf(format, args...))
}

func Warn(msg string) {
	diagLog.Warn().Msg(msg)
}

func Warnf(format string, args ...any) {
	diagLog.Warn().Msg(fmt.Sprintf(format, args...))
}

func Error(msg string) {
	diagLog.Error().Msg(msg)
}

func Errorf(format string, args ...any) {
	diagLog.Error().Msg(fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) {
	diagLog.Debug().Msg(fmt.Sprintf(format, args...))
}

// StateChange records a state machine transition with structured fields.
func StateChange(from, to string) {
	diagLog.Debug().Str("from", from).Str("to", to).Msg("state")
}

// Transcription records a completed remote call.
func Transcription(provider, mode string, audioS float64, elapsed time.Duration) {
	diagLog.Info().
		Str("provider", provider).
		Str("mode", mode).
		Float64("audio_s", audioS).
		Dur("elapsed", elapsed).
		Msg("transcription")
}

// TranscriptionText appends the recognized text to the transcript log file.
func TranscriptionText(text string) {
	logMu.Lock()
	defer logMu.Unlock()
	if !fileReady {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	transcribeFile.WriteString(line)
}

func SessionStart(provider, format string) {
	diagLog.Info().
		Str("provider", provider).
		Str("format", format).
		Msg("session_start")
}

func SessionEnd(count int) {
	diagLog.Info().
		Int("count", count).
		Msg("session_end")
}
