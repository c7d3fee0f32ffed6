package parser

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/go-html-test-report/internal/model"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestParseBasic(t *testing.T) {
	var logs bytes.Buffer
	res, err := Parse(strings.NewReader("Login Test : Pass\nCheckout Test : Failed\n"), newTestLogger(&logs))
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, model.TestResult{Name: "Login Test", Status: model.StatusPass, RawStatus: "pass"}, res.Results[0])
	assert.Equal(t, model.TestResult{Name: "Checkout Test", Status: model.StatusFail, RawStatus: "failed"}, res.Results[1])
	assert.Empty(t, res.Malformed)
	assert.Empty(t, logs.String())
}

func TestParseSkipsMalformedLine(t *testing.T) {
	var logs bytes.Buffer
	res, err := Parse(strings.NewReader("Bad Line Without Colon\nGood : pass\n"), newTestLogger(&logs))
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "Good", res.Results[0].Name)
	assert.Equal(t, model.StatusPass, res.Results[0].Status)

	require.Len(t, res.Malformed, 1)
	assert.Equal(t, MalformedLine{Line: 1, Text: "Bad Line Without Colon", Reason: ReasonNoSeparator}, res.Malformed[0])
	assert.Equal(t, 1, strings.Count(logs.String(), "skipping malformed line"))
}

func TestParseMalformedLines(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{"no colon", "just text", ReasonNoSeparator},
		{"two colons", "a : b : c", ReasonManySeparators},
		{"url in name", "http://host : pass", ReasonManySeparators},
		{"empty name", " : pass", ReasonEmptyName},
		{"empty status", "Some Test :", ReasonEmptyStatus},
		{"only colon", ":", ReasonEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(strings.NewReader(tt.line+"\n"), nil)
			require.NoError(t, err)
			assert.Empty(t, res.Results)
			require.Len(t, res.Malformed, 1)
			assert.Equal(t, tt.reason, res.Malformed[0].Reason)
		})
	}
}

func TestParseCountsMatchInput(t *testing.T) {
	input := strings.Join([]string{
		"A : pass",
		"broken",
		"",
		"B : failed",
		"   ",
		"x : y : z",
		"C : PASS",
		"D : skipped",
		"no separator here either",
	}, "\n")

	var logs bytes.Buffer
	res, err := Parse(strings.NewReader(input), newTestLogger(&logs))
	require.NoError(t, err)

	var got []string
	for _, r := range res.Results {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
	assert.Len(t, res.Malformed, 3)
	assert.Equal(t, 3, strings.Count(logs.String(), "skipping malformed line"))
	assert.Equal(t, []int{2, 6, 9}, []int{res.Malformed[0].Line, res.Malformed[1].Line, res.Malformed[2].Line})
}

func TestParseStatusClassification(t *testing.T) {
	tests := []struct {
		line string
		want model.Status
		raw  string
	}{
		{"T : pass", model.StatusPass, "pass"},
		{"T : Pass", model.StatusPass, "pass"},
		{"T : PASS", model.StatusPass, "pass"},
		{"T :   pass   ", model.StatusPass, "pass"},
		{"\tT\t:\tpass\t", model.StatusPass, "pass"},
		{"T : Failed", model.StatusFail, "failed"},
		{"T : SKIPPED", model.StatusFail, "skipped"},
		{"T : passed", model.StatusFail, "passed"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res, err := Parse(strings.NewReader(tt.line), nil)
			require.NoError(t, err)
			require.Len(t, res.Results, 1)
			assert.Equal(t, "T", res.Results[0].Name)
			assert.Equal(t, tt.want, res.Results[0].Status)
			assert.Equal(t, tt.raw, res.Results[0].RawStatus)
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	res, err := Parse(strings.NewReader(""), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Malformed)
}

func TestParseCRLFAndBOM(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufeffFirst : pass\r\nSecond : failed\r\n"), nil)
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "First", res.Results[0].Name)
	assert.Equal(t, "failed", res.Results[1].RawStatus)
}

func TestParseVeryLongLine(t *testing.T) {
	longName := strings.Repeat("x", 2*1024*1024)
	input := "A : pass\n" + longName + " : pass\nB : failed\n"

	res, err := Parse(strings.NewReader(input), nil)
	require.NoError(t, err)

	require.Len(t, res.Results, 3)
	assert.Equal(t, "A", res.Results[0].Name)
	assert.Equal(t, longName, res.Results[1].Name)
	assert.Equal(t, "B", res.Results[2].Name)
	assert.Equal(t, model.StatusFail, res.Results[2].Status)
	assert.Empty(t, res.Malformed)
}

func TestParseLastLineWithoutNewline(t *testing.T) {
	res, err := Parse(strings.NewReader("A : pass\n\nB : failed"), nil)
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "B", res.Results[1].Name)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReadError(t *testing.T) {
	_, err := Parse(failingReader{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	if err := os.WriteFile(path, []byte("One : pass\nTwo : failed\n"), 0o600); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}

	res, err := ParseFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputNotFound), "expected ErrInputNotFound, got %v", err)
}
