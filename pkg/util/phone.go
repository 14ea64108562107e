package util

import "regexp"

// Vietnamese phone numbers: a leading 0 or +84 followed by 9 digits.
var vnPhoneRegex = regexp.MustCompile(`^(0|\+84)[0-9]{9}$`)

// IsValidVNPhone reports whether the given string is a valid Vietnamese phone number
func IsValidVNPhone(phone string) bool {
	return vnPhoneRegex.MatchString(phone)
}
