// Package otp implements HMAC-based (RFC 4226) and time-based (RFC 6238)
// one-time password derivation and verification.
//
// The Engine works on raw secret bytes and numeric codes. It keeps no state
// between calls, so a single Engine can be shared by every request handler.
// Verification checks exactly one counter; callers that want to tolerate
// clock drift check neighbouring counters with VerifyCounter themselves.
package otp
