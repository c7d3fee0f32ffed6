package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chmouel/go-html-test-report/internal/model"
)

// ErrInputNotFound is returned by ParseFile when the input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

const separator = ":"

// Reasons attached to skipped lines.
const (
	ReasonNoSeparator    = "missing separator"
	ReasonManySeparators = "more than one separator"
	ReasonEmptyName      = "empty test name"
	ReasonEmptyStatus    = "empty status"
)

// MalformedLine describes an input line that was skipped.
type MalformedLine struct {
	Line   int    // 1-indexed line number
	Text   string // trimmed line content
	Reason string
}

// Result holds the parsed records and the lines that were skipped.
type Result struct {
	Results   []model.TestResult
	Malformed []MalformedLine
}

// ParseFile opens path and parses it. A missing file yields ErrInputNotFound.
func ParseFile(path string, logger *slog.Logger) (*Result, error) {
	f, err := os.Open(path) //nolint:gosec // path is from the --input flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, logger)
}

// Parse reads "name : status" lines from r. Blank lines are ignored and
// malformed lines are skipped with one warning each; a bad line never stops
// the parse. Lines have no length limit. Only a read failure returns an error.
func Parse(r io.Reader, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lower := cases.Lower(language.Und)

	res := &Result{Results: []model.TestResult{}}
	br := bufio.NewReader(r)

	lineNo := 0
	for {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading test results: %w", err)
		}
		if text == "" && err != nil {
			break
		}

		lineNo++
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		res.add(lineNo, strings.TrimSpace(text), lower, logger)

		if err != nil {
			break
		}
	}

	logger.Debug("parsed test results",
		slog.Int("records", len(res.Results)),
		slog.Int("skipped", len(res.Malformed)))

	return res, nil
}

// add records one trimmed line, skipping blanks and logging malformed ones.
func (res *Result) add(lineNo int, line string, lower cases.Caser, logger *slog.Logger) {
	if line == "" {
		return
	}

	name, status, reason := splitLine(line)
	if reason != "" {
		res.Malformed = append(res.Malformed, MalformedLine{Line: lineNo, Text: line, Reason: reason})
		logger.Warn("skipping malformed line",
			slog.Int("line", lineNo),
			slog.String("reason", reason),
			slog.String("text", line))
		return
	}

	status = lower.String(status)
	res.Results = append(res.Results, model.TestResult{
		Name:      name,
		Status:    model.ClassifyStatus(status),
		RawStatus: status,
	})
}

// splitLine splits a trimmed line into its name and status fields. A non-empty
// reason means the line is malformed.
func splitLine(line string) (name, status, reason string) {
	switch strings.Count(line, separator) {
	case 0:
		return "", "", ReasonNoSeparator
	case 1:
	default:
		return "", "", ReasonManySeparators
	}

	name, status, _ = strings.Cut(line, separator)
	name = strings.TrimSpace(name)
	status = strings.TrimSpace(status)

	switch {
	case name == "":
		return "", "", ReasonEmptyName
	case status == "":
		return "", "", ReasonEmptyStatus
	}
	return name, status, ""
}
