// Package resume persists the last submitted task handle to a single-slot
// file so a crashed or exhausted run can be checked again later with the
// same handle.
package resume
