package generator

import (
	"encoding/json"
	"html/template"

	"github.com/chmouel/go-html-test-report/internal/model"
)

const (
	colorPass = "#28a745"
	colorFail = "#dc3545"
)

// chartConfig mirrors the subset of the Chart.js configuration object the
// report uses.
type chartConfig struct {
	Type    string       `json:"type"`
	Data    chartData    `json:"data"`
	Options chartOptions `json:"options"`
}

type chartData struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label           string `json:"label,omitempty"`
	Data            []int  `json:"data"`
	BackgroundColor any    `json:"backgroundColor"` // string or []string
	BorderWidth     int    `json:"borderWidth"`
}

type chartOptions struct {
	Responsive bool          `json:"responsive"`
	Plugins    *chartPlugins `json:"plugins,omitempty"`
	Scales     *chartScales  `json:"scales,omitempty"`
}

type chartPlugins struct {
	Legend chartLegend `json:"legend"`
}

type chartLegend struct {
	Position string `json:"position"`
}

type chartScales struct {
	X chartAxis `json:"x"`
	Y chartAxis `json:"y"`
}

type chartAxis struct {
	Stacked     bool `json:"stacked"`
	BeginAtZero bool `json:"beginAtZero,omitempty"`
	Max         int  `json:"max,omitempty"`
}

func pieChart(s model.Summary) chartConfig {
	return chartConfig{
		Type: "pie",
		Data: chartData{
			Labels: []string{"Passed", "Failed"},
			Datasets: []chartDataset{{
				Data:            []int{s.Passed, s.Failed},
				BackgroundColor: []string{colorPass, colorFail},
				BorderWidth:     1,
			}},
		},
		Options: chartOptions{
			Responsive: true,
			Plugins:    &chartPlugins{Legend: chartLegend{Position: "bottom"}},
		},
	}
}

func barChart(s model.Summary) chartConfig {
	return chartConfig{
		Type: "bar",
		Data: chartData{
			Labels: []string{"Test Results"},
			Datasets: []chartDataset{
				{Label: "Passed", Data: []int{s.Passed}, BackgroundColor: colorPass, BorderWidth: 1},
				{Label: "Failed", Data: []int{s.Failed}, BackgroundColor: colorFail, BorderWidth: 1},
			},
		},
		Options: chartOptions{
			Responsive: true,
			Scales: &chartScales{
				X: chartAxis{Stacked: true},
				Y: chartAxis{Stacked: true, BeginAtZero: true, Max: s.ChartMax()},
			},
		},
	}
}

func toJS(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil //nolint:gosec // G203: marshaled from our own structs
}
