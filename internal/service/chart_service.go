package service

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gradebook/internal/model"
)

// Chart kinds served by the visualization view.
const (
	ChartBar  = "bar"
	ChartPie  = "pie"
	ChartLine = "line"
)

var ErrUnknownChart = errors.New("unknown chart kind")

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig is the render-ready data behind a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	ShowLegend bool          `json:"showLegend"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. Row is the 1-based position of
// the student in the records table; it is set only on per-student points.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Row   int     `json:"row,omitempty"`
}

// ChartService builds chart data from a table and renders it as SVG.
type ChartService struct {
	Width  int
	Height int
}

func NewChartService() *ChartService {
	return &ChartService{Width: 800, Height: 400}
}

// Kinds lists the chart kinds in display order.
func (s *ChartService) Kinds() []string {
	return []string{ChartBar, ChartPie, ChartLine}
}

// Build produces the chart data for kind. An empty table yields ErrNoData.
func (s *ChartService) Build(kind string, table model.Table) (*ChartConfig, error) {
	if table.Empty() {
		return nil, ErrNoData
	}
	switch kind {
	case ChartBar:
		return buildBar(table), nil
	case ChartPie:
		return buildPie(table), nil
	case ChartLine:
		return buildLine(table), nil
	}
	return nil, errors.Wrap(ErrUnknownChart, kind)
}

// bar: one series per subject, one point per student holding that subject.
func buildBar(table model.Table) *ChartConfig {
	subjects := table.SubjectNames()
	series := make([]ChartSeries, len(subjects))
	for i, name := range subjects {
		series[i] = ChartSeries{Name: name, Color: defaultColors[i%len(defaultColors)]}
	}
	for r, row := range table.Rows {
		for i, m := range row.Marks {
			series[i].Data = append(series[i].Data, ChartPoint{Label: row.Name, Value: float64(m), Row: r + 1})
		}
	}
	return &ChartConfig{
		ChartType:  ChartBar,
		Title:      "Subject Marks",
		XAxis:      "Name",
		YAxis:      "Marks",
		Series:     series,
		ShowLegend: true,
	}
}

// pie: share of each grade label across all rows.
func buildPie(table model.Table) *ChartConfig {
	labels, counts := table.GradeCounts()
	points := make([]ChartPoint, 0, len(labels))
	for _, l := range labels {
		points = append(points, ChartPoint{Label: l, Value: float64(counts[l])})
	}
	return &ChartConfig{
		ChartType:  ChartPie,
		Title:      "Grade Distribution",
		Series:     []ChartSeries{{Name: "Grade", Data: points}},
		ShowLegend: true,
	}
}

// line: mean of each subject column over the students that have it.
func buildLine(table model.Table) *ChartConfig {
	n := table.SubjectCount()
	sums := make([]float64, n)
	counts := make([]int, n)
	for _, row := range table.Rows {
		for i, m := range row.Marks {
			sums[i] += float64(m)
			counts[i]++
		}
	}

	points := make([]ChartPoint, n)
	for i := range points {
		points[i] = ChartPoint{Label: model.SubjectName(i), Value: roundTo2(sums[i] / float64(counts[i]))}
	}
	return &ChartConfig{
		ChartType: ChartLine,
		Title:     "Average Trend",
		XAxis:     "Subject",
		YAxis:     "Average",
		Series:    []ChartSeries{{Name: "Average", Data: points, Color: defaultColors[0]}},
	}
}

// RenderSVG writes the chart for kind as SVG.
func (s *ChartService) RenderSVG(kind string, table model.Table, w io.Writer) error {
	cfg, err := s.Build(kind, table)
	if err != nil {
		return err
	}

	var r interface {
		Render(rp chart.RendererProvider, w io.Writer) error
	}
	switch kind {
	case ChartBar:
		r = s.barChart(cfg)
	case ChartPie:
		r = s.pieChart(cfg)
	case ChartLine:
		r = s.lineChart(cfg)
	}
	return errors.Wrapf(r.Render(chart.SVG, w), "render %s chart", kind)
}

func (s *ChartService) barChart(cfg *ChartConfig) *chart.BarChart {
	// Regroup subject series into consecutive bars per student row. Names
	// may repeat, so rows are keyed by position.
	type bar struct {
		subject int
		label   string
		value   float64
	}
	var order []int
	groups := make(map[int][]bar)
	for si, series := range cfg.Series {
		for _, p := range series.Data {
			if _, ok := groups[p.Row]; !ok {
				order = append(order, p.Row)
			}
			groups[p.Row] = append(groups[p.Row], bar{subject: si, label: p.Label, value: p.Value})
		}
	}
	sort.Ints(order)

	var values []chart.Value
	var lo, hi float64
	for _, row := range order {
		for i, b := range groups[row] {
			name := ""
			if i == 0 {
				name = b.label
			}
			color := hexColor(cfg.Series[b.subject].Color)
			values = append(values, chart.Value{
				Label: name,
				Value: b.value,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
			lo, hi = math.Min(lo, b.value), math.Max(hi, b.value)
		}
	}

	const barWidth, spacing = 24, 8
	width := s.Width
	if need := len(values)*(barWidth+spacing) + 120; need > width {
		width = need
	}

	return &chart.BarChart{
		Title:      cfg.Title + " (" + seriesNames(cfg.Series) + ")",
		Width:      width,
		Height:     s.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: yRange(lo, hi)},
		Bars:       values,
	}
}

func (s *ChartService) pieChart(cfg *ChartConfig) *chart.PieChart {
	points := cfg.Series[0].Data
	var total float64
	for _, p := range points {
		total += p.Value
	}

	values := make([]chart.Value, len(points))
	for i, p := range points {
		color := hexColor(defaultColors[i%len(defaultColors)])
		values[i] = chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", p.Label, 100*p.Value/total),
			Value: p.Value,
			Style: chart.Style{FillColor: color},
		}
	}

	return &chart.PieChart{
		Title:  cfg.Title,
		Width:  s.Height,
		Height: s.Height,
		Values: values,
	}
}

func (s *ChartService) lineChart(cfg *ChartConfig) *chart.Chart {
	series := cfg.Series[0]
	n := len(series.Data)
	xs := make([]float64, n)
	ys := make([]float64, n)
	// Blank ticks at 0 and n+1 keep the x range non-zero for a single subject.
	ticks := []chart.Tick{{Value: 0}}
	var lo, hi float64
	for i, p := range series.Data {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: p.Label})
		lo, hi = math.Min(lo, p.Value), math.Max(hi, p.Value)
	}
	ticks = append(ticks, chart.Tick{Value: float64(n + 1)})

	color := hexColor(series.Color)
	c := &chart.Chart{
		Title:  cfg.Title,
		Width:  s.Width,
		Height: s.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16},
		},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: float64(n + 1)},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{Name: cfg.YAxis, Range: yRange(lo, hi)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    series.Name,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 3,
					DotColor:    color,
					DotWidth:    4,
				},
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c
}

// yRange spans at least 0..100 so single-valued data still has a non-zero range.
func yRange(lo, hi float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: math.Min(lo, 0), Max: math.Max(hi, 100)}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func seriesNames(series []ChartSeries) string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
