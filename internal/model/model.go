package model

import "strings"

// Status is the normalized outcome of a single test.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Display classes used by the report for each outcome.
const (
	ClassSuccess = "success"
	ClassDanger  = "danger"
)

// chartFallbackMax is the bar chart upper bound used when there are no results.
const chartFallbackMax = 10

// ClassifyStatus maps a raw status literal to a Status. Only "pass" (any case,
// surrounding whitespace ignored) is a pass; everything else is a failure.
func ClassifyStatus(raw string) Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusPass)) {
		return StatusPass
	}
	return StatusFail
}

// TestResult is one parsed "name : status" record.
type TestResult struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	RawStatus string `json:"rawStatus"` // lower-cased literal from the input
}

// DisplayClass returns the presentation class for the result.
func (r TestResult) DisplayClass() string {
	if r.Status == StatusPass {
		return ClassSuccess
	}
	return ClassDanger
}

// Summary contains aggregate statistics and the results grouped by outcome.
type Summary struct {
	Total       int          `json:"total"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	PassPercent float64      `json:"passPercent"`
	FailPercent float64      `json:"failPercent"`
	PassedTests []TestResult `json:"passedTests"`
	FailedTests []TestResult `json:"failedTests"`
}

// Summarize computes the summary for results. Input order is preserved within
// each bucket. Percentages are zero when results is empty.
func Summarize(results []TestResult) Summary {
	s := Summary{
		Total:       len(results),
		PassedTests: []TestResult{},
		FailedTests: []TestResult{},
	}

	for _, r := range results {
		if r.Status == StatusPass {
			s.PassedTests = append(s.PassedTests, r)
		} else {
			s.FailedTests = append(s.FailedTests, r)
		}
	}

	s.Passed = len(s.PassedTests)
	s.Failed = s.Total - s.Passed

	if s.Total > 0 {
		s.PassPercent = float64(s.Passed) / float64(s.Total) * 100
		s.FailPercent = 100 - s.PassPercent
	}

	return s
}

// ChartMax returns the y-axis upper bound for the bar chart.
func (s Summary) ChartMax() int {
	if s.Total > 0 {
		return s.Total + 5
	}
	return chartFallbackMax
}
