// Package clock provides a tiny time abstraction.
//
// Expiry checks (OTP records, registration tickets, access tokens) read time
// through Clocker so tests can pin or advance it with Manual.
package clock
