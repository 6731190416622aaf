package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeDiscrimination(t *testing.T) {
	ok := Ok("http://x", Legislation{ID: "http://x"})
	skip := Skip("http://y", ReasonPDFOnly)
	fail := Fail("http://z", CategoryParse, errors.New("bad xml"))

	assert.True(t, ok.IsOk())
	assert.False(t, ok.IsSkip())
	assert.False(t, ok.IsFail())
	assert.Len(t, ok.Records, 1)

	assert.True(t, skip.IsSkip())
	assert.False(t, skip.IsOk())
	assert.Equal(t, ReasonPDFOnly, skip.SkipReason())

	assert.True(t, fail.IsFail())
	assert.False(t, fail.IsOk())
	assert.Equal(t, CategoryParse, fail.Category())
	assert.EqualError(t, fail.Err(), "bad xml")
}

func TestErrorCategoryRecoverable(t *testing.T) {
	recoverable := []ErrorCategory{
		CategoryPDFFallback, CategoryHTTP, CategoryParse,
		CategoryValidation, CategoryFile, CategoryUnknown,
	}
	for _, c := range recoverable {
		assert.True(t, c.Recoverable(), string(c))
	}

	assert.False(t, CategoryMemory.Recoverable())
	assert.False(t, CategoryEncoding.Recoverable())
}
