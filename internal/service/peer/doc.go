// Package peer sends terse status lines to a downstream consumer such as a
// door controller on a serial line or an MQTT subscriber.
//
// Delivery is fire-and-forget: callers use Send, which logs and drops errors.
package peer
