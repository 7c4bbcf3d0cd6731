// Package uid generates identifiers: snowflake numbers for database rows and
// time-ordered UUIDs for correlation and token ids.
package uid

// NumberID generates unique, roughly time-ordered 64-bit identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
