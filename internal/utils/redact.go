package utils

import "strings"

// RedactEmail keeps the first character of the local part and the domain,
// e.g. "jane@example.com" becomes "j***@example.com".
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}

	return email[:1] + "***" + email[at:]
}

// RedactToken keeps only the last four characters of a bearer token.
func RedactToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
