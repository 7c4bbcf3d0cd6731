package usecase

const (
	msgRequired       = "Email and name are required"
	msgInvalidEmail   = "Invalid email format"
	msgShortName      = "Name must be at least 2 characters long"
	msgLongLastName   = "Last name must be at most 100 characters long"
	msgNotConfigured  = "Email service is not configured"
	msgDeliveryFailed = "Failed to send email. Please try again."
	msgRateLimited    = "Too many OTP requests. Please try again later."
	msgSent           = "OTP sent successfully"

	msgMissingVerify    = "Missing email or OTP"
	msgNotFound         = "OTP not found or expired"
	msgExpired          = "OTP has expired"
	msgTooManyAttempts  = "Too many failed attempts"
	msgMismatchTemplate = "Invalid OTP code. %d attempts remaining."
	msgVerified         = "Email verified successfully"

	kindConfiguration    = "CONFIGURATION_ERROR"
	kindDelivery         = "DELIVERY_ERROR"
	kindNotFound         = "OTP_NOT_FOUND"
	kindExpired          = "OTP_EXPIRED"
	kindAttemptsExceeded = "OTP_ATTEMPTS_EXCEEDED"
	kindMismatch         = "OTP_MISMATCH"
)
