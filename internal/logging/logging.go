package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"gold-economy/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu     sync.RWMutex
	output io.Writer = os.Stdout
	file   *cappedFile
)

// Init configures the global zerolog logger. When cfg.File is set, logs go
// to both stdout and the capped file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var sink io.Writer = os.Stdout
	var fileErr error
	mu.Lock()
	if file != nil {
		_ = file.Close()
		file = nil
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		f, err := newCappedFile(path, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			file = f
			sink = io.MultiWriter(os.Stdout, f)
		}
	}
	output = sink
	mu.Unlock()

	var console io.Writer = sink
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: sink}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(console).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file disabled")
	}
}

// Writer returns the raw sink used by the global logger, for handlers that
// log through log/slog.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	output = os.Stdout
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}
