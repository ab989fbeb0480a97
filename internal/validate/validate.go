// Package validate holds the pure field validators used on the appeal
// submission path. Each function takes a raw value and returns either the
// normalized value or a field-scoped error; malformed input never panics.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	violationIDRe = regexp.MustCompile(`^[A-Z0-9]{8,20}$`)
	emailRe       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// National identity card: 9 digits + V/X (old) or 12 digits (new).
	nicOldRe = regexp.MustCompile(`^[0-9]{9}[VX]$`)
	nicNewRe = regexp.MustCompile(`^[0-9]{12}$`)

	// Driving license: 1 letter + 7 digits (new) or 9 digits (old).
	licenseNewRe = regexp.MustCompile(`^[A-Z][0-9]{7}$`)
	licenseOldRe = regexp.MustCompile(`^[0-9]{9}$`)

	mobileLocalRe = regexp.MustCompile(`^07[0-9]{8}$`)
	mobileIntlRe  = regexp.MustCompile(`^\+947[0-9]{8}$`)
)

// SanitizeString trims the value and strips angle brackets.
func SanitizeString(raw string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(raw))
}

// ViolationID normalizes to upper case and checks the 8-20 alphanumeric shape.
func ViolationID(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", errors.New("Violation ID is required")
	}
	if !violationIDRe.MatchString(v) {
		return "", errors.New("Violation ID must be 8-20 alphanumeric characters")
	}
	return v, nil
}

// Description checks the 50-2000 character window and the five-word minimum.
func Description(raw string) (string, error) {
	v := SanitizeString(raw)
	if v == "" {
		return "", errors.New("Description is required")
	}
	if utf8.RuneCountInString(v) < 50 {
		return "", errors.New("Description must be at least 50 characters")
	}
	if utf8.RuneCountInString(v) > 2000 {
		return "", errors.New("Description cannot exceed 2000 characters")
	}
	if len(strings.Fields(v)) < 5 {
		return "", errors.New("Description must contain at least 5 words")
	}
	return v, nil
}

func Email(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", errors.New("Email is required")
	}
	if !emailRe.MatchString(v) {
		return "", errors.New("Invalid email format")
	}
	return v, nil
}

func NIC(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", errors.New("NIC number is required")
	}
	if !nicOldRe.MatchString(v) && !nicNewRe.MatchString(v) {
		return "", errors.New("NIC must be in format: 9 digits + V/X or 12 digits")
	}
	return v, nil
}

func DrivingLicense(raw string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if v == "" {
		return "", errors.New("Driving license number is required")
	}
	if !licenseNewRe.MatchString(v) && !licenseOldRe.MatchString(v) {
		return "", errors.New("Driving license must be 1 letter + 7 digits (e.g. B1234567) or 9 digits")
	}
	return v, nil
}

func MobileNumber(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", errors.New("Mobile number is required")
	}
	if !mobileLocalRe.MatchString(v) && !mobileIntlRe.MatchString(v) {
		return "", errors.New("Mobile number must be 07XXXXXXXX or +947XXXXXXXX")
	}
	return v, nil
}
