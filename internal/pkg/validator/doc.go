// Package validator provides struct validation for request and domain inputs.
//
// Field names in reported errors follow the `json` tag of the field so clients
// can map them back to the payload they sent.
package validator
