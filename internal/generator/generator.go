package generator

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/chmouel/go-html-test-report/internal/model"
)

//go:embed assets/*
var assets embed.FS

// TimestampLayout is the layout of the generation time shown in the report.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	DefaultTitle  = "Test Execution Report"
	DefaultFooter = "Generated by Test Automation Framework"
)

// Resources holds the locations of the third-party assets the report links to.
// They are written into the document as-is and never fetched.
type Resources struct {
	BootstrapCSS   string `yaml:"bootstrap_css"`
	BootstrapJS    string `yaml:"bootstrap_js"`
	FontAwesomeCSS string `yaml:"font_awesome_css"`
	ChartJS        string `yaml:"chart_js"`
}

// DefaultResources returns the public CDN locations.
func DefaultResources() Resources {
	return Resources{
		BootstrapCSS:   "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css",
		BootstrapJS:    "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/js/bootstrap.bundle.min.js",
		FontAwesomeCSS: "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css",
		ChartJS:        "https://cdn.jsdelivr.net/npm/chart.js",
	}
}

// Options configures the HTML report generation.
type Options struct {
	Title     string
	Footer    string
	Resources Resources
	Stdout    io.Writer // destination for "-" output, os.Stdout when nil
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Footer == "" {
		o.Footer = DefaultFooter
	}
	def := DefaultResources()
	if o.Resources.BootstrapCSS == "" {
		o.Resources.BootstrapCSS = def.BootstrapCSS
	}
	if o.Resources.BootstrapJS == "" {
		o.Resources.BootstrapJS = def.BootstrapJS
	}
	if o.Resources.FontAwesomeCSS == "" {
		o.Resources.FontAwesomeCSS = def.FontAwesomeCSS
	}
	if o.Resources.ChartJS == "" {
		o.Resources.ChartJS = def.ChartJS
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return o
}

type templateData struct {
	Title       string
	Footer      string
	GeneratedAt string
	Summary     model.Summary
	Resources   Resources
	CSS         template.CSS
	PieChart    template.JS
	BarChart    template.JS
}

// Render produces the HTML document for summary. The output depends only on
// its arguments.
func Render(summary model.Summary, generatedAt time.Time, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	cssBytes, err := assets.ReadFile("assets/style.css")
	if err != nil {
		return nil, fmt.Errorf("reading CSS: %w", err)
	}

	htmlBytes, err := assets.ReadFile("assets/template.html")
	if err != nil {
		return nil, fmt.Errorf("reading HTML template: %w", err)
	}

	pie, err := toJS(pieChart(summary))
	if err != nil {
		return nil, fmt.Errorf("marshaling pie chart: %w", err)
	}
	bar, err := toJS(barChart(summary))
	if err != nil {
		return nil, fmt.Errorf("marshaling bar chart: %w", err)
	}

	funcMap := template.FuncMap{
		"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	}

	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(htmlBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	//nolint:gosec // G203: CSS is an embedded asset, charts are marshaled from our data
	td := templateData{
		Title:       opts.Title,
		Footer:      opts.Footer,
		GeneratedAt: generatedAt.Format(TimestampLayout),
		Summary:     summary,
		Resources:   opts.Resources,
		CSS:         template.CSS(cssBytes),
		PieChart:    pie,
		BarChart:    bar,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, td); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders the report and writes it to outputPath, replacing any
// existing file. An empty path or "-" writes to Options.Stdout.
func Generate(summary model.Summary, generatedAt time.Time, outputPath string, opts Options) error {
	opts = opts.withDefaults()

	out, err := Render(summary, generatedAt, opts)
	if err != nil {
		return err
	}

	if outputPath == "" || outputPath == "-" {
		if _, err := opts.Stdout.Write(out); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil { //nolint:gosec // G306: HTML report should be readable
		return fmt.Errorf("writing output file: %w", err)
	}

	return nil
}
