// Package console is an interactive bench for the gate controller.
//
// It runs the real controller, supervisor and request engine against a
// simulated reader, a hand-switched link, log indicators and a virtual clock,
// so card flows and debounce windows can be exercised without hardware.
package console
