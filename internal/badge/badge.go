package badge

import (
	"fmt"
	"io"
	"os"
)

// Thresholds defines the color thresholds for badge generation.
type Thresholds struct {
	Red    float64 `yaml:"red"`    // Upper threshold for red (0-Red is red)
	Yellow float64 `yaml:"yellow"` // Upper threshold for yellow (Red-Yellow is yellow, Yellow+ is green)
}

// DefaultThresholds returns the default color thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Red:    70,
		Yellow: 90,
	}
}

const label = "tests"

// GenerateBadge creates an SVG badge showing the pass rate and writes it to
// outputPath. Use Write for any other destination.
func GenerateBadge(passRate float64, outputPath string, thresholds Thresholds) error {
	svg := generateSVG(passRate, thresholds)
	if err := os.WriteFile(outputPath, []byte(svg), 0o644); err != nil { //nolint:gosec // G306: Badge should be readable
		return fmt.Errorf("writing badge file: %w", err)
	}

	return nil
}

// Write writes the SVG badge to w.
func Write(w io.Writer, passRate float64, thresholds Thresholds) error {
	if _, err := io.WriteString(w, generateSVG(passRate, thresholds)); err != nil {
		return fmt.Errorf("writing badge: %w", err)
	}
	return nil
}

// generateSVG creates the SVG content for the badge.
func generateSVG(passRate float64, thresholds Thresholds) string {
	// Clamp to 0-100 range
	if passRate < 0 {
		passRate = 0
	}
	if passRate > 100 {
		passRate = 100
	}

	color := getColor(passRate, thresholds)
	value := fmt.Sprintf("%.1f%% passed", passRate)

	leftWidth := 41
	rightWidth := 84
	height := 20
	totalWidth := leftWidth + rightWidth

	// shields.io compatible layout
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%d" height="%d" role="img" aria-label="%s: %s">
  <title>%s: %s</title>
  <g shape-rendering="crispEdges">
    <rect width="%d" height="%d" fill="#555"/>
    <rect x="%d" width="%d" height="%d" fill="%s"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" text-rendering="geometricPrecision" font-size="11">
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
    <text aria-hidden="true" x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>`,
		totalWidth, height, label, value,
		label, value,
		totalWidth, height,
		leftWidth, rightWidth, height, color,
		leftWidth/2, label,
		leftWidth/2, label,
		leftWidth+rightWidth/2, value,
		leftWidth+rightWidth/2, value,
	)

	return svg
}

// getColor returns the SVG color code for the pass rate.
func getColor(passRate float64, thresholds Thresholds) string {
	switch {
	case passRate >= thresholds.Yellow:
		return "#4c1" // Green
	case passRate > thresholds.Red:
		return "#dfb317" // Yellow/Amber
	default:
		return "#e05d44" // Red
	}
}
