package rpi

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/oshokin/card-gate/internal/config"
	"github.com/oshokin/card-gate/internal/service/feedback"
)

var (
	errPinNotFound      = errors.New("gpio pin not found")
	errIndicatorUnwired = errors.New("indicator has no pin")
)

// Panel drives indicators on GPIO output lines, active high.
type Panel struct {
	pins map[feedback.Indicator]gpio.PinOut
}

// NewPanel creates a Panel over already resolved pins.
func NewPanel(pins map[feedback.Indicator]gpio.PinOut) *Panel {
	return &Panel{pins: pins}
}

// OpenPanel resolves the configured pin names and drives them low.
func OpenPanel(cfg config.Indicators) (*Panel, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	names := map[feedback.Indicator]string{
		feedback.Positive: cfg.PositivePin,
		feedback.Negative: cfg.NegativePin,
		feedback.Buzzer:   cfg.BuzzerPin,
		feedback.Fault:    cfg.FaultPin,
	}

	pins := make(map[feedback.Indicator]gpio.PinOut, len(names))

	for indicator, name := range names {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("%s (%s): %w", name, indicator, errPinNotFound)
		}

		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configure %s: %w", name, err)
		}

		pins[indicator] = pin
	}

	return NewPanel(pins), nil
}

// Set implements feedback.Panel.
func (p *Panel) Set(indicator feedback.Indicator, on bool) error {
	pin, ok := p.pins[indicator]
	if !ok {
		return fmt.Errorf("%s: %w", indicator, errIndicatorUnwired)
	}

	level := gpio.Low
	if on {
		level = gpio.High
	}

	return pin.Out(level)
}
