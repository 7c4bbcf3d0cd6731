// Package hash provides one-way digests for secrets.
//
// Passwords go through bcrypt or argon2id (both peppered). Short-lived codes
// such as email OTPs go through keyed HMAC-SHA256 so they can be compared in
// constant time without a slow KDF on the request path.
package hash
