package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/modcase/pkg/utils/logging"
)

// Close is for deferred closes whose error has no caller to return to: request bodies,
// repositories at process exit, log files. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("close failed", slog.Any("error", err))
	}
}

// Write writes a response body after headers were sent, when the status can no longer change.
// A nil writer is ignored.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Warn("response write failed", slog.Any("error", err), slog.Int("bytes", len(data)))
	}
}
