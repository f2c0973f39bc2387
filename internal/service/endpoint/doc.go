// Package endpoint assembles and runs the card-gate endpoint: it loads the
// configuration, opens the hardware and transports it names, brings the
// link up and hands control to the gate loop until the process is signaled.
package endpoint
