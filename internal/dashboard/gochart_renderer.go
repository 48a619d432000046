package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultChartWidth  = 800
	defaultChartHeight = 360
)

var ErrCanvasInUse = errors.New("canvas is already in use")

const emptySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"></svg>`

// SVGRenderer renders chart specs to SVG with go-chart and keeps the latest
// output per canvas. A canvas holds at most one live chart.
type SVGRenderer struct {
	mu     sync.Mutex
	width  int
	height int
	live   map[string]*svgChart
	svgs   map[string][]byte
}

func NewSVGRenderer(width, height int) *SVGRenderer {
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	return &SVGRenderer{
		width:  width,
		height: height,
		live:   make(map[string]*svgChart),
		svgs:   make(map[string][]byte),
	}
}

type svgChart struct {
	canvas   string
	renderer *SVGRenderer
	once     sync.Once
}

func (c *svgChart) Canvas() string {
	return c.canvas
}

func (c *svgChart) Destroy() {
	c.once.Do(func() {
		c.renderer.release(c)
	})
}

func (r *SVGRenderer) release(c *svgChart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live[c.canvas] == c {
		delete(r.live, c.canvas)
		delete(r.svgs, c.canvas)
	}
}

func (r *SVGRenderer) Create(canvas string, spec ChartSpec) (Chart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, inUse := r.live[canvas]; inUse {
		return nil, fmt.Errorf("%s: %w", canvas, ErrCanvasInUse)
	}

	var (
		buf bytes.Buffer
		err error
	)
	switch spec.Type {
	case ChartTypeLine:
		err = r.renderLine(&buf, spec)
	case ChartTypeDoughnut:
		err = r.renderDoughnut(&buf, spec)
	default:
		err = fmt.Errorf("unsupported chart type: %q", spec.Type)
	}
	if err != nil {
		return nil, err
	}

	c := &svgChart{canvas: canvas, renderer: r}
	r.live[canvas] = c
	r.svgs[canvas] = buf.Bytes()
	return c, nil
}

// SVG returns the markup of the live chart on the canvas.
func (r *SVGRenderer) SVG(canvas string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svg, ok := r.svgs[canvas]
	return svg, ok
}

func (r *SVGRenderer) LiveCharts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *SVGRenderer) renderLine(buf *bytes.Buffer, spec ChartSpec) error {
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	var series []chart.Series
	for _, ds := range spec.Datasets {
		var xs, ys []float64
		for i, v := range ds.Data {
			if v == nil {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, *v)
			minY = math.Min(minY, *v)
			maxY = math.Max(maxY, *v)
		}
		if len(xs) == 0 {
			continue
		}
		// a single point still needs two x values to draw
		if len(xs) == 1 {
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}

		color := hexColor(ds.BorderColor)
		style := chart.Style{
			StrokeColor: color,
			StrokeWidth: 2,
			DotColor:    color,
			DotWidth:    3,
		}
		if ds.Fill {
			style.FillColor = color.WithAlpha(40)
		}
		for _, d := range ds.BorderDash {
			style.StrokeDashArray = append(style.StrokeDashArray, float64(d))
		}

		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	if len(series) == 0 {
		_, err := fmt.Fprintf(buf, emptySVG, r.width, r.height)
		return err
	}
	if maxY <= minY {
		minY, maxY = minY-1, maxY+1
	}

	ticks := make([]chart.Tick, 0, len(spec.Labels))
	for i, label := range spec.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	maxX := math.Max(float64(len(spec.Labels)-1), 1)

	ch := chart.Chart{
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: maxX},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(minY, maxY),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.SVG, buf); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// paddedRange widens [minY, maxY] by 5% of each bound's magnitude on both
// sides, so points below zero stay inside the plot.
func paddedRange(minY, maxY float64) *chart.ContinuousRange {
	return &chart.ContinuousRange{
		Min: math.Floor(minY - 0.05*math.Abs(minY)),
		Max: math.Ceil(maxY + 0.05*math.Abs(maxY)),
	}
}

func (r *SVGRenderer) renderDoughnut(buf *bytes.Buffer, spec ChartSpec) error {
	var values []chart.Value
	if len(spec.Datasets) > 0 {
		ds := spec.Datasets[0]
		for i, v := range ds.Data {
			if v == nil || *v <= 0 {
				continue
			}
			label := ""
			if i < len(spec.Labels) {
				label = spec.Labels[i]
			}
			style := chart.Style{}
			if i < len(ds.BackgroundColors) {
				style.FillColor = hexColor(ds.BackgroundColors[i])
			}
			values = append(values, chart.Value{Label: label, Value: *v, Style: style})
		}
	}

	if len(values) == 0 {
		_, err := fmt.Fprintf(buf, emptySVG, r.width, r.height)
		return err
	}

	donut := chart.DonutChart{
		Width:  r.height,
		Height: r.height,
		Values: values,
	}
	if err := donut.Render(chart.SVG, buf); err != nil {
		return fmt.Errorf("render doughnut chart: %w", err)
	}
	return nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
