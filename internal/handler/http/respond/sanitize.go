package respond

import "regexp"

// Patterns are applied in order; provider-specific prefixes come before the
// generic sk- pattern so they keep their prefix when masked.
var secretPatterns = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`pplx-[a-zA-Z0-9]{10,}`), "pplx-****"},
	{regexp.MustCompile(`xai-[a-zA-Z0-9]{10,}`), "xai-****"},
	{regexp.MustCompile(`tvly-[a-zA-Z0-9\-]{10,}`), "tvly-****"},
	{regexp.MustCompile(`jina_[a-zA-Z0-9]{10,}`), "jina_****"},
	{regexp.MustCompile(`AIza[a-zA-Z0-9\-_]{20,}`), "AIza****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`(?i)bearer [a-zA-Z0-9\-_.]+`), "Bearer ****"},
	{regexp.MustCompile(`://([^:/@]+):([^@]+)@`), "://$1:****@"},
}

// SanitizeError returns the error message with API keys, bearer tokens and
// DSN passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, p := range secretPatterns {
		msg = p.re.ReplaceAllString(msg, p.mask)
	}
	return msg
}
