// Package link keeps the endpoint's network link alive.
//
// The Supervisor owns the link state. It is asked to connect at startup,
// re-checks the link on the main loop's health cadence and raises the fault
// indicator when a connection attempt times out. Network backends hide how
// the link is actually joined (NetworkManager, an OS-managed interface, or
// a manual switch for the console).
package link
