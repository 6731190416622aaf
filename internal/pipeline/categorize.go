package pipeline

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"net"
	"strings"

	"lexingest/internal/domain"
	"lexingest/internal/fetch"
	"lexingest/internal/parse"
)

// Categorize maps an error onto the fixed taxonomy. The mapping is
// deterministic: typed errors first, then message patterns.
func Categorize(err error) domain.ErrorCategory {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, parse.ErrNoBody):
		return domain.CategoryPDFFallback
	case errors.Is(err, fetch.ErrNotFound),
		errors.Is(err, fetch.ErrBreakerOpen):
		return domain.CategoryHTTP
	case errors.Is(err, domain.ErrAmendmentURL):
		return domain.CategoryValidation
	}

	var (
		rateLimited *fetch.RateLimitedError
		transient   *fetch.TransientError
		netErr      net.Error
		xmlErr      *xml.SyntaxError
		pathErr     *fs.PathError
	)
	switch {
	case errors.As(err, &rateLimited), errors.As(err, &transient), errors.As(err, &netErr):
		return domain.CategoryHTTP
	case errors.As(err, &xmlErr):
		return domain.CategoryParse
	case errors.As(err, &pathErr):
		return domain.CategoryFile
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "out of memory") || strings.Contains(msg, "cannot allocate"):
		return domain.CategoryMemory
	case strings.Contains(msg, "invalid utf-8") || strings.Contains(msg, "unsupported encoding"):
		return domain.CategoryEncoding
	case strings.Contains(msg, "no such file") || strings.Contains(msg, "permission denied"):
		return domain.CategoryFile
	case strings.Contains(msg, "status 4") || strings.Contains(msg, "status 5") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset"):
		return domain.CategoryHTTP
	case strings.Contains(msg, "xml") || strings.Contains(msg, "parse") || strings.Contains(msg, "unexpected eof"):
		return domain.CategoryParse
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "missing required"):
		return domain.CategoryValidation
	default:
		return domain.CategoryUnknown
	}
}
