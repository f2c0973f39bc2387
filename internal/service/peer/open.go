package peer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/card-gate/internal/config"
)

var errUnknownType = errors.New("unknown peer type")

// Open builds the Notifier selected by cfg.
func Open(ctx context.Context, cfg config.Peer) (Notifier, error) {
	switch cfg.Type {
	case config.PeerSerial:
		return OpenSerial(cfg.Device, cfg.Baud)
	case config.PeerMQTT:
		return DialMQTT(ctx, cfg.BrokerURL, cfg.Topic)
	case config.PeerLog:
		return Log{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownType, cfg.Type)
	}
}
