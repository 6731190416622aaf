package track

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerResumesAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	tracker, err := Open(dir, "run-1", "legislation", 2024, "ukpga")
	require.NoError(t, err)

	require.NoError(t, tracker.Success("http://www.legislation.gov.uk/id/ukpga/2024/7", "uuid-1", "2024-05-20"))
	require.NoError(t, tracker.Failure("http://www.legislation.gov.uk/id/ukpga/2024/8", errors.New("status 503")))
	require.NoError(t, tracker.Close())

	reopened, err := Open(dir, "run-2", "legislation", 2024, "ukpga")
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.True(t, reopened.Done("http://www.legislation.gov.uk/id/ukpga/2024/7"))
	assert.False(t, reopened.Done("http://www.legislation.gov.uk/id/ukpga/2024/8"),
		"failures stay eligible for retry")
	assert.Equal(t, "legislation", reopened.DocType())
}

func TestTrackerFileNaming(t *testing.T) {
	dir := t.TempDir()

	tracker, err := Open(dir, "run-1", "caselaw", 2023, "ewhc")
	require.NoError(t, err)
	require.NoError(t, tracker.Success("https://caselaw.nationalarchives.gov.uk/ewhc/kb/2023/1", "uuid-9", ""))
	require.NoError(t, tracker.Close())

	assert.FileExists(t, filepath.Join(dir, "caselaw_2023_ewhc_success.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "caselaw_2023_ewhc_failures.jsonl"))
}

func TestTrackerToleratesMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legislation_2024_ukpga_success.jsonl")
	content := strings.Join([]string{
		`{"url":"http://www.legislation.gov.uk/id/ukpga/2024/1","run_id":"old"}`,
		`{"url":"http://www.legislation.gov.uk/id/ukpga/2024/2","run_`,
		``,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tracker, err := Open(dir, "run-3", "legislation", 2024, "ukpga")
	require.NoError(t, err)
	defer func() { _ = tracker.Close() }()

	assert.True(t, tracker.Done("http://www.legislation.gov.uk/id/ukpga/2024/1"))
	assert.False(t, tracker.Done("http://www.legislation.gov.uk/id/ukpga/2024/2"),
		"a line truncated by a crash must not count as done")
}
