package domain

import "fmt"

// ErrorCategory classifies a per-record failure for the orchestrator's
// recoverable / non-recoverable policy.
type ErrorCategory string

const (
	CategoryPDFFallback ErrorCategory = "pdf_fallback"
	CategoryHTTP        ErrorCategory = "http_error"
	CategoryParse       ErrorCategory = "parse_error"
	CategoryValidation  ErrorCategory = "validation_error"
	CategoryMemory      ErrorCategory = "memory_error"
	CategoryEncoding    ErrorCategory = "encoding_error"
	CategoryFile        ErrorCategory = "file_error"
	CategoryUnknown     ErrorCategory = "unknown_error"
)

// Recoverable reports whether the orchestrator may log and continue past
// this category. Memory and encoding failures abort the pipeline.
func (c ErrorCategory) Recoverable() bool {
	switch c {
	case CategoryMemory, CategoryEncoding:
		return false
	}
	return true
}

// SkipReason explains why a URL was counted as processed without producing
// a record. Skipped URLs are never retried.
type SkipReason string

const (
	// ReasonPDFOnly marks documents that exist only as a scanned PDF.
	ReasonPDFOnly SkipReason = "pdf_only"
	// ReasonMalformed marks permanently corrupted source content.
	ReasonMalformed SkipReason = "malformed"
	// ReasonExists marks records the state oracle already knows about.
	ReasonExists SkipReason = "exists"
)

// Outcome is the tagged result of one scrape+parse step. Exactly one of
// Records, Skip or Fail is meaningful, discriminated by the accessors.
type Outcome struct {
	URL     string
	Records []Record

	skipReason SkipReason
	failCat    ErrorCategory
	err        error
}

// Ok wraps successfully parsed records for a source URL.
func Ok(url string, records ...Record) Outcome {
	return Outcome{URL: url, Records: records}
}

// Skip marks a URL as processed-but-unusable; it will not be retried.
func Skip(url string, reason SkipReason) Outcome {
	return Outcome{URL: url, skipReason: reason}
}

// Fail marks a URL as failed with a category the orchestrator switches on.
func Fail(url string, cat ErrorCategory, err error) Outcome {
	return Outcome{URL: url, failCat: cat, err: err}
}

func (o Outcome) IsOk() bool   { return o.err == nil && o.skipReason == "" }
func (o Outcome) IsSkip() bool { return o.skipReason != "" }
func (o Outcome) IsFail() bool { return o.err != nil }

func (o Outcome) SkipReason() SkipReason  { return o.skipReason }
func (o Outcome) Category() ErrorCategory { return o.failCat }
func (o Outcome) Err() error              { return o.err }

func (o Outcome) String() string {
	switch {
	case o.IsSkip():
		return fmt.Sprintf("skip(%s: %s)", o.URL, o.skipReason)
	case o.IsFail():
		return fmt.Sprintf("fail(%s: %s: %v)", o.URL, o.failCat, o.err)
	default:
		return fmt.Sprintf("ok(%s: %d records)", o.URL, len(o.Records))
	}
}
