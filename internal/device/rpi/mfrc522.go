package rpi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/mfrc522"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/domain/access"
	"github.com/oshokin/card-gate/internal/logger"
	"github.com/oshokin/card-gate/internal/service/reader"
)

// DefaultPollTimeout bounds a single presence probe.
const DefaultPollTimeout = 100 * time.Millisecond

// uidDevice is the part of the MFRC522 driver the reader uses.
type uidDevice interface {
	ReadUID(timeout time.Duration) ([]byte, error)
	Halt() error
}

// MFRC522 adapts the periph MFRC522 driver to reader.Reader.
type MFRC522 struct {
	dev     uidDevice
	port    spi.PortCloser
	timeout time.Duration
	uid     []byte
}

// NewMFRC522 wraps dev. port may be nil.
func NewMFRC522(dev uidDevice, port spi.PortCloser, pollTimeout time.Duration) *MFRC522 {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}

	return &MFRC522{dev: dev, port: port, timeout: pollTimeout}
}

// OpenMFRC522 opens the SPI port and pins named in cfg.
func OpenMFRC522(cfg config.Reader) (*MFRC522, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.SPIPort, err)
	}

	resetPin := gpioreg.ByName(cfg.ResetPin)
	irqPin := gpioreg.ByName(cfg.IRQPin)

	if resetPin == nil || irqPin == nil {
		_ = port.Close()

		return nil, fmt.Errorf("reset %q / irq %q: %w", cfg.ResetPin, cfg.IRQPin, errPinNotFound)
	}

	dev, err := mfrc522.NewSPI(port, resetPin, gpio.PinIn(irqPin))
	if err != nil {
		_ = port.Close()

		return nil, fmt.Errorf("init mfrc522: %w", err)
	}

	return NewMFRC522(dev, port, cfg.PollTimeout), nil
}

// CardPresent implements reader.Reader. A probe that times out means no card.
func (r *MFRC522) CardPresent(ctx context.Context) bool {
	if len(r.uid) > 0 {
		return true
	}

	uid, err := r.dev.ReadUID(r.timeout)
	if err != nil {
		logger.Debugf(ctx, "no card: %v", err)

		return false
	}

	r.uid = uid

	return len(uid) > 0
}

// ReadUID implements reader.Reader.
func (r *MFRC522) ReadUID(ctx context.Context) (access.CardID, error) {
	if !r.CardPresent(ctx) {
		return access.CardID{}, reader.ErrNoCard
	}

	return access.NewCardID(r.uid)
}

// Halt implements reader.Reader.
func (r *MFRC522) Halt() error {
	r.uid = nil

	if err := r.dev.Halt(); err != nil {
		return fmt.Errorf("halt card: %w", err)
	}

	return nil
}

// Close implements reader.Reader.
func (r *MFRC522) Close() error {
	if r.port == nil {
		return nil
	}

	return errors.Join(r.dev.Halt(), r.port.Close())
}
