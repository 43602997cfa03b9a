package logger

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveDataPatterns match credentials that show up in datastore DSNs, error messages
// and config dumps.
var sensitiveDataPatterns = []*regexp.Regexp{
	// user:password@tcp(host) style MySQL DSNs
	regexp.MustCompile(`([A-Za-z0-9_.\-]+:)([^@/\s]+)(@)`),
	// key=value secrets
	regexp.MustCompile(`(?i)((?:password|passwd|secret|token|dsn|api[_-]?key)[\s:=]+)([^;,&\s]{3,})`),
	// bearer tokens
	regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9\-._~+/]+=*)`),
}

// sensitiveKeywords mark config keys whose values must never be logged verbatim
var sensitiveKeywords = []string{"password", "passwd", "secret", "token", "dsn", "apikey", "api_key"}

// RedactSensitiveData replaces credentials in s with [REDACTED].
func RedactSensitiveData(s string) string {
	if s == "" {
		return s
	}
	for i, pattern := range sensitiveDataPatterns {
		if i == 0 {
			s = pattern.ReplaceAllString(s, "${1}"+redacted+"${3}")
			continue
		}
		s = pattern.ReplaceAllString(s, "${1}"+redacted)
	}
	return s
}

// IsSensitiveKey reports whether a configuration key names a secret.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RedactedString returns a field whose value is redacted when key names a secret.
func RedactedString(key, value string) Field {
	if IsSensitiveKey(key) && value != "" {
		return String(key, redacted)
	}
	return String(key, RedactSensitiveData(value))
}
