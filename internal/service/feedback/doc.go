// Package feedback drives the endpoint's lights and buzzer.
//
// Outcomes are played as fixed Patterns: explicit sequences of indicator
// changes each followed by a hold. Playing blocks the caller for the
// pattern's total duration, measured on an injectable clock. The fault light
// is separate: it stays lit while any fault reason is raised.
package feedback
