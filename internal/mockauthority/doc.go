// Package mockauthority is an in-memory stand-in for the remote access
// authority, used by the authority-mock binary and the integration tests.
//
// check_and_toggle flips a per-card session: the first accepted request
// starts it, the next one ends it. Unknown cards and wrong tokens are denied
// with a 200 response, as the real authority does.
package mockauthority
