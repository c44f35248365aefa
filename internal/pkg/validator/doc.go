// Package validator checks usecase inputs and module dependencies against
// their `validate` struct tags.
//
// Failures come back as V10ValidationError, keyed by the JSON name of each
// offending field so the router can return them unchanged.
package validator
