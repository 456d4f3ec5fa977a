package safe

import (
	"io"
	"log/slog"

	"github.com/secmon-lab/panoptes/pkg/utils/logging"
)

// Close safely closes an io.Closer and logs any errors.
// It handles nil closers gracefully.
func Close(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Default().Error("Failed to close", slog.Any("error", err))
	}
}
