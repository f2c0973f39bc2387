// Package gate is the access decision controller.
//
// A Controller turns one card presentation into one authority request and one
// feedback cycle: debounce, read acknowledgement, request, classification,
// peer line, feedback pattern, debounce commit. Run drives it from a single
// goroutine together with the periodic link health check; nothing in here is
// shared with other goroutines.
package gate
