package scraper

import "errors"

var (
	// ErrInvalidURL is returned for malformed or non-http(s) URLs.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP is returned when a URL resolves to a private address.
	ErrPrivateIP = errors.New("URL resolves to private IP address")

	// ErrBodyTooLarge is returned when a response exceeds MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects is returned when a redirect chain exceeds MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrNoReadableContent is returned when a page yields no text.
	ErrNoReadableContent = errors.New("no readable content")

	// ErrNotConfigured is returned when the required API key is missing.
	ErrNotConfigured = errors.New("scraper not configured")
)
