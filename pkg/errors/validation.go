package errors

import (
	"net/url"
	"slices"
)

// MaxSize is the largest permutation size whose factorial fits a 32-bit
// signed integer.
const MaxSize = 12

// ValidateSize checks that n is a supported permutation size.
func ValidateSize(n int) error {
	if n < 0 || n > MaxSize {
		return New(ErrCodeOutOfRange, "n must be between 0 and %d, got %d", MaxSize, n)
	}
	return nil
}

// ValidateChunks checks the target chunk count. Zero means "use the
// default" and is accepted.
func ValidateChunks(chunks int) error {
	if chunks < 0 {
		return New(ErrCodeInvalidChunks, "chunk count cannot be negative, got %d", chunks)
	}
	return nil
}

// ValidateWorkers checks the worker count. Zero means "use the default" and
// is accepted.
func ValidateWorkers(workers int) error {
	if workers < 0 {
		return New(ErrCodeInvalidWorkers, "worker count cannot be negative, got %d", workers)
	}
	const maxWorkers = 1024
	if workers > maxWorkers {
		return New(ErrCodeInvalidWorkers, "worker count too large (max %d)", maxWorkers)
	}
	return nil
}

// ValidateIndex checks that idx addresses a permutation of size n, i.e.
// lies in [0, n!).
func ValidateIndex(n, idx int) error {
	if err := ValidateSize(n); err != nil {
		return err
	}
	total := 1
	for i := 2; i <= n; i++ {
		total *= i
	}
	if n == 0 || idx < 0 || idx >= total {
		return New(ErrCodeInvalidIndex, "index must be in [0, %d), got %d", total, idx)
	}
	return nil
}

// ValidateBackendURL checks a connection URL for one of the allowed schemes.
func ValidateBackendURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidBackend, "backend URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidBackend, err, "malformed backend URL")
	}
	if !slices.Contains(schemes, u.Scheme) {
		return New(ErrCodeInvalidBackend, "unsupported URL scheme %q (want one of %v)", u.Scheme, schemes)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidBackend, "backend URL is missing a host")
	}
	return nil
}
