package validators

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodeRegex = regexp.MustCompile(`^[1-9]\d{5}$`)
)

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(val)
	if length < minLen || length > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func ValidateRequired(field, val string) error {
	if strings.TrimSpace(val) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

func ValidateName(field, val string) error {
	if utf8.RuneCountInString(strings.TrimSpace(val)) < 2 {
		return fmt.Errorf("%s must be at least 2 characters", field)
	}
	for _, r := range val {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '.' && r != '\'' {
			return fmt.Errorf("%s must contain only letters", field)
		}
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("phone must be a valid 10-digit mobile number")
	}
	return nil
}

func ValidatePincode(pincode string) error {
	if !pincodeRegex.MatchString(pincode) {
		return fmt.Errorf("pincode must be exactly 6 digits")
	}
	return nil
}

// ValidatePassword requires 8+ characters with at least one letter and digit.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one number")
	}
	return nil
}

func ValidatePrice(val string) error {
	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("price must be a number")
	}
	if price < 0 {
		return fmt.Errorf("price must be greater than or equal to 0")
	}
	return nil
}

func ValidateQuantity(val string) error {
	qty, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("quantity must be a whole number")
	}
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	return nil
}
