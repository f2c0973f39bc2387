// Package clock abstracts time for the control loop so that the blocking
// feedback patterns, the debounce window and the health cadence can be
// driven by a virtual clock in tests.
package clock
