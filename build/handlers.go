package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
)

// NewDefaultLogHandler returns the handler that writes to the console and to
// the rotating log file, skipping whichever of the two is disabled. The
// console options apply to the combined output. A nil handler is returned if
// both are disabled.
func NewDefaultLogHandler(cfg *LogConfig,
	rotator *RotatingLogWriter) btclog.Handler {

	var (
		writers []io.Writer
		opts    []btclog.HandlerOption
	)
	if !cfg.Console.Disable {
		writers = append(writers, os.Stdout)
		opts = cfg.Console.HandlerOptions()
	}
	if !cfg.File.Disable && rotator != nil {
		writers = append(writers, rotator)
		if len(opts) == 0 {
			opts = cfg.File.HandlerOptions()
		}
	}

	if len(writers) == 0 {
		return nil
	}

	return btclog.NewDefaultHandler(io.MultiWriter(writers...), opts...)
}
