package mail

import (
	"fmt"
	"strings"
)

// FactoryOptions carries per-driver settings for NewFromDriver.
type FactoryOptions struct {
	Brevo BrevoConfig
	SMTP  SMTPConfig
}

// NewFromDriver builds the Mail implementation named by driver.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverBrevo, "":
		return NewBrevo(opts.Brevo), nil
	case DriverSMTP:
		return NewSMTP(opts.SMTP), nil
	default:
		return nil, fmt.Errorf("mail: unsupported driver %q", driver)
	}
}
