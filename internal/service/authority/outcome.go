package authority

import "net/http"

// Kind tags an Outcome.
type Kind int

// Outcome kinds.
const (
	// TransportFailure means no usable HTTP response was obtained.
	TransportFailure Kind = iota
	// HTTPFailure means the final response status was not 200.
	HTTPFailure
	// Success means the final response status was 200.
	Success
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport_failure"
	case HTTPFailure:
		return "http_failure"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// Outcome is the result of one logical request.
type Outcome struct {
	Kind Kind
	// StatusCode is set for HTTPFailure and Success.
	StatusCode int
	// Body is set for Success only.
	Body string
	// Err explains a TransportFailure.
	Err error
	// RequestID is the X-Request-ID sent with the first hop.
	RequestID string
}

// OK reports whether the outcome carries a body to classify.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

func transportFailure(requestID string, err error) Outcome {
	return Outcome{Kind: TransportFailure, Err: err, RequestID: requestID}
}

func fromStatus(requestID string, status int, body string) Outcome {
	if status == http.StatusOK {
		return Outcome{Kind: Success, StatusCode: status, Body: body, RequestID: requestID}
	}

	return Outcome{Kind: HTTPFailure, StatusCode: status, RequestID: requestID}
}
