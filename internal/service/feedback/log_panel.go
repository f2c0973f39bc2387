package feedback

import (
	"context"

	"github.com/oshokin/card-gate/internal/logger"
)

// LogPanel writes indicator changes to the diagnostic log instead of pins.
type LogPanel struct {
	ctx context.Context //nolint:containedctx // Panel.Set has no context parameter.
}

// NewLogPanel creates a LogPanel logging through the logger in ctx.
func NewLogPanel(ctx context.Context) *LogPanel {
	return &LogPanel{ctx: logger.WithName(ctx, "indicators")}
}

// Set implements Panel.
func (p *LogPanel) Set(indicator Indicator, on bool) error {
	logger.DebugKV(p.ctx, "Indicator", "name", indicator.String(), "on", on)

	return nil
}
