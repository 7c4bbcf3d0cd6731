package inbound

type RequestOTPRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type RequestOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// ExpiresAt is unix milliseconds.
	ExpiresAt          int64  `json:"expiresAt"`
	OTPHash            string `json:"otpHash,omitempty"`
	ResendAfterSeconds int    `json:"resendAfterSeconds"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type VerifyOTPResponse struct {
	Message           string `json:"message"`
	Verified          bool   `json:"verified"`
	RegistrationToken string `json:"registrationToken"`
}
