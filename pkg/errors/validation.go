package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxURLLength bounds image URLs accepted from untrusted input.
const maxURLLength = 2048

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidURL, "URL must use http or https scheme")
	}

	return nil
}

// ValidateImageURL validates an image URL supplied by a remote client.
//
// Validation rules:
//   - http or https scheme (see [ValidateURL])
//   - maximum length of 2048 characters
//   - no control characters
//   - a non-empty host
func ValidateImageURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return err
	}

	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidURL, "URL too long (max %d characters)", maxURLLength)
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "URL contains invalid control characters")
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL must include a host")
	}

	return nil
}

// ValidateImageURLs validates every non-blank entry of urls.
// Blank entries are ignored; they are dropped later by board creation.
func ValidateImageURLs(urls []string) error {
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if err := ValidateImageURL(u); err != nil {
			return err
		}
	}
	return nil
}
