package feedback

import "time"

// Indicator is one physical output.
type Indicator int

// Indicators driven by the endpoint.
const (
	// Positive is the "access granted" light.
	Positive Indicator = iota
	// Negative is the "access denied" light.
	Negative
	// Buzzer is the audible indicator.
	Buzzer
	// Fault is the persistent fault light.
	Fault
)

// String implements fmt.Stringer.
func (i Indicator) String() string {
	switch i {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Buzzer:
		return "buzzer"
	case Fault:
		return "fault"
	default:
		return "unknown"
	}
}

// Step switches one indicator and then holds for Hold.
type Step struct {
	Indicator Indicator
	On        bool
	Hold      time.Duration
}

// Pattern is a named, fixed sequence of steps.
type Pattern struct {
	Name  string
	Steps []Step
}

// Duration returns the sum of all holds.
func (p Pattern) Duration() time.Duration {
	var total time.Duration
	for _, step := range p.Steps {
		total += step.Hold
	}

	return total
}

//nolint:gochecknoglobals // Patterns are fixed tables.
var (
	// SuccessPattern lasts as long as the debounce cooldown so a re-read
	// cannot fire again while it plays.
	SuccessPattern = Pattern{
		Name: "success",
		Steps: []Step{
			{Indicator: Positive, On: true},
			{Indicator: Buzzer, On: true, Hold: 200 * time.Millisecond},
			{Indicator: Buzzer, On: false, Hold: 1800 * time.Millisecond},
			{Indicator: Positive, On: false},
		},
	}

	// FailurePattern beeps three times and keeps the negative light on.
	FailurePattern = Pattern{
		Name: "failure",
		Steps: []Step{
			{Indicator: Negative, On: true},
			{Indicator: Buzzer, On: true, Hold: 100 * time.Millisecond},
			{Indicator: Buzzer, On: false, Hold: 100 * time.Millisecond},
			{Indicator: Buzzer, On: true, Hold: 100 * time.Millisecond},
			{Indicator: Buzzer, On: false, Hold: 100 * time.Millisecond},
			{Indicator: Buzzer, On: true, Hold: 100 * time.Millisecond},
			{Indicator: Buzzer, On: false, Hold: 1600 * time.Millisecond},
			{Indicator: Negative, On: false},
		},
	}

	// ReadAckPattern is the short chirp played as soon as a card is read.
	ReadAckPattern = Pattern{
		Name: "read-ack",
		Steps: []Step{
			{Indicator: Buzzer, On: true, Hold: 50 * time.Millisecond},
			{Indicator: Buzzer, On: false},
		},
	}
)
