package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"garagelink/services/apperr"
)

// otpSpan covers the 6-digit range 100000-999999 inclusive.
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP produces a uniformly-random 6-digit decimal one-time code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

// ValidateOTP checks a submitted code against the stored one. The expiry
// check is strict and takes precedence: past expiry the code is rejected
// even when it matches.
func ValidateOTP(stored, submitted string, expiry time.Time, now time.Time) error {
	if now.After(expiry) {
		return apperr.Wrap(apperr.ErrExpired, "one-time code expired at %s", expiry.Format(time.RFC3339))
	}
	if stored == "" || stored != submitted {
		return apperr.Wrap(apperr.ErrCodeMismatch, "one-time code does not match")
	}
	return nil
}
