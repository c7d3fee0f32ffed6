package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chmouel/go-html-test-report/internal/model"
)

type jsonReport struct {
	GeneratedAt string        `json:"generatedAt"`
	ChartMax    int           `json:"chartMax"`
	Summary     model.Summary `json:"summary"`
}

// GenerateJSON writes summary as indented JSON to outputPath, or to stdout
// when outputPath is "-".
func GenerateJSON(summary model.Summary, generatedAt time.Time, outputPath string, stdout io.Writer) error {
	data, err := json.MarshalIndent(jsonReport{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		ChartMax:    summary.ChartMax(),
		Summary:     summary,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing JSON summary: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil { //nolint:gosec // G306: summary should be readable
		return fmt.Errorf("writing JSON summary: %w", err)
	}
	return nil
}
