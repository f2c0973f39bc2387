// Package reader abstracts the proximity card reader.
//
// The control loop only ever asks two questions: is a card present, and what
// is its UID. Hardware drivers live elsewhere; this package holds the
// interface plus the backends that need no hardware.
package reader
