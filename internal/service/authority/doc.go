// Package authority talks to the remote access authority.
//
// Engine performs a single logical GET: it refuses to touch the network while
// the link is down, follows at most one 301/302 redirect and bounds every hop
// with its own timeout. The result is an Outcome, never a Go error, so the
// caller can classify it without inspecting transport details.
package authority
