package tone

import (
	"context"
	"time"

	"github.com/oshokin/kitchen-display/internal/alarm"
	"github.com/oshokin/kitchen-display/internal/logger"
)

// Logger logs tones instead of playing them.
type Logger struct {
	ctx context.Context //nolint:containedctx // Carries the named logger only.
}

// NewLogger creates a Logger writing through the logger carried by ctx.
func NewLogger(ctx context.Context) *Logger {
	return &Logger{
		ctx: logger.WithName(ctx, "tone"),
	}
}

// StartTone logs the start of a tone.
//
//nolint:ireturn // Tone is the output contract.
func (l *Logger) StartTone(frequency float64) (alarm.Tone, error) {
	logger.DebugKV(l.ctx, "Tone started", "frequency", frequency)

	return &loggedTone{
		ctx:       l.ctx,
		frequency: frequency,
		startedAt: time.Now(),
	}, nil
}

// loggedTone logs its own stop.
type loggedTone struct {
	ctx       context.Context //nolint:containedctx // Carries the named logger only.
	frequency float64
	startedAt time.Time
}

// Stop logs the end of the tone.
func (t *loggedTone) Stop() {
	logger.DebugKV(t.ctx, "Tone stopped", "frequency", t.frequency, "played", time.Since(t.startedAt))
}
