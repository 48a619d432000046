package dashboard

import (
	"errors"
	"fmt"
)

type ChartType string

const (
	ChartTypeLine     ChartType = "line"
	ChartTypeDoughnut ChartType = "doughnut"
)

const (
	historyColor = "#00ffff"
	targetColor  = "#3fb950"
)

var anatomyPalette = []string{
	"#ff0055", "#00ffff", "#ffcc00", "#cc00ff", "#00ff99", "#0072ff", "#ffffff",
}

var ErrNilRenderer = errors.New("nil chart renderer")

type Dataset struct {
	Label string
	// nil entries are gaps
	Data             []*float64
	BorderColor      string
	BackgroundColors []string
	BorderDash       []int
	Fill             bool
	Tension          float64
}

type ChartSpec struct {
	Type     ChartType
	Labels   []string
	Datasets []Dataset
}

// Chart is a live chart instance mounted on a canvas.
type Chart interface {
	Canvas() string
	Destroy()
}

type Renderer interface {
	Create(canvas string, spec ChartSpec) (Chart, error)
}

// BuildGainsChart lays out history followed by the predicted target line,
// which starts at the last history point so the two lines connect.
func BuildGainsChart(data *PredictionResult) ChartSpec {
	history := data.History.Values
	prediction := data.Prediction.Values

	labels := make([]string, 0, len(data.History.Dates)+len(data.Prediction.Dates))
	labels = append(labels, data.History.Dates...)
	labels = append(labels, data.Prediction.Dates...)

	historyData := make([]*float64, 0, len(history))
	for _, v := range history {
		historyData = append(historyData, floatPtr(v))
	}

	targetData := make([]*float64, 0, len(history)+len(prediction))
	if n := len(history); n > 0 {
		for i := 0; i < n-1; i++ {
			targetData = append(targetData, nil)
		}
		targetData = append(targetData, floatPtr(history[n-1]))
	}
	for _, v := range prediction {
		targetData = append(targetData, floatPtr(v))
	}

	return ChartSpec{
		Type:   ChartTypeLine,
		Labels: labels,
		Datasets: []Dataset{
			{
				Label:       "History",
				Data:        historyData,
				BorderColor: historyColor,
				Fill:        true,
				Tension:     0.3,
			},
			{
				Label:       "AI Target",
				Data:        targetData,
				BorderColor: targetColor,
				BorderDash:  []int{5, 5},
				Tension:     0.3,
			},
		},
	}
}

func BuildAnatomyChart(data AnatomyDistribution) ChartSpec {
	values := make([]*float64, 0, len(data.Data))
	colors := make([]string, 0, len(data.Data))
	for i, v := range data.Data {
		values = append(values, floatPtr(v))
		colors = append(colors, anatomyPalette[i%len(anatomyPalette)])
	}

	return ChartSpec{
		Type:   ChartTypeDoughnut,
		Labels: append([]string(nil), data.Labels...),
		Datasets: []Dataset{
			{
				Data:             values,
				BackgroundColors: colors,
			},
		},
	}
}

// RenderChart disposes prev and mounts a new gains chart.
func RenderChart(r Renderer, prev Chart, data *PredictionResult) (Chart, error) {
	if prev != nil {
		prev.Destroy()
	}
	if r == nil {
		return nil, ErrNilRenderer
	}
	c, err := r.Create(CanvasGains, BuildGainsChart(data))
	if err != nil {
		return nil, fmt.Errorf("render gains chart: %w", err)
	}
	return c, nil
}

// RenderAnatomy disposes prev and mounts a new anatomy chart.
func RenderAnatomy(r Renderer, prev Chart, data AnatomyDistribution) (Chart, error) {
	if prev != nil {
		prev.Destroy()
	}
	if r == nil {
		return nil, ErrNilRenderer
	}
	c, err := r.Create(CanvasAnatomy, BuildAnatomyChart(data))
	if err != nil {
		return nil, fmt.Errorf("render anatomy chart: %w", err)
	}
	return c, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
