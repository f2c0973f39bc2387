// Package access contains the core domain types of the endpoint.
//
// CardID is the hex rendering of a reader UID, Result is the outcome class
// of one card presentation and Debouncer suppresses repeated reads of the
// same card inside a cooldown window.
package access
