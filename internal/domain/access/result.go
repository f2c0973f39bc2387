package access

import "strings"

// Result is the outcome class of one processed card.
type Result int

// Results produced by the decision controller.
const (
	// ResultGranted means the authority started a session.
	ResultGranted Result = iota + 1
	// ResultEnded means the authority ended a running session.
	ResultEnded
	// ResultDenied means the authority answered without either marker.
	ResultDenied
	// ResultRequestFailed means the authority could not be asked.
	ResultRequestFailed
)

// Markers searched for in a successful authority response body.
const (
	MarkerSessionStarted = "session_started"
	MarkerSessionEnded   = "session_ended"
)

// Lines sent to the downstream peer.
const (
	LineGranted       = "Access Granted!"
	LineEnded         = "Session Ended"
	LineDenied        = "Access Denied"
	LineRequestFailed = "Request Failed"
	LineReady         = "System Ready"
)

// ClassifyBody maps a 200 response body to a Result.
// MarkerSessionStarted wins when both markers are present.
func ClassifyBody(body string) Result {
	switch {
	case strings.Contains(body, MarkerSessionStarted):
		return ResultGranted
	case strings.Contains(body, MarkerSessionEnded):
		return ResultEnded
	default:
		return ResultDenied
	}
}

// Success reports whether r plays the success feedback pattern.
func (r Result) Success() bool {
	return r == ResultGranted || r == ResultEnded
}

// PeerLine returns the line the peer receives for r.
func (r Result) PeerLine() string {
	switch r {
	case ResultGranted:
		return LineGranted
	case ResultEnded:
		return LineEnded
	case ResultDenied:
		return LineDenied
	default:
		return LineRequestFailed
	}
}

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case ResultGranted:
		return "granted"
	case ResultEnded:
		return "ended"
	case ResultDenied:
		return "denied"
	case ResultRequestFailed:
		return "request_failed"
	default:
		return "unknown"
	}
}
