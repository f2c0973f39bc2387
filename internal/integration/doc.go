// Package integration wires the card endpoint components together against a
// mock authority served over real TCP.
package integration
