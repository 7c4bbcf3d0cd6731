// Package jwt issues and verifies HS512 JSON Web Tokens.
//
// The application uses one instance per token purpose, told apart by audience:
// short-lived registration tickets minted after email verification, and API
// access tokens minted at login. A token from one purpose never verifies
// against the other.
package jwt
