// Package mail sends transactional email through a pluggable provider.
//
// Use cases build a provider-agnostic Message and hand it to Mail. Two drivers
// exist: the Brevo transactional email API and plain SMTP.
package mail
