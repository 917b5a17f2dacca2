package domain

import "github.com/shopspring/decimal"

// ChartType tells the rendering collaborator how to draw a Chart.
type ChartType string

const (
	ChartBar     ChartType = "bar"
	ChartLine    ChartType = "line"
	ChartArea    ChartType = "area"
	ChartPie     ChartType = "pie"
	ChartHeatmap ChartType = "heatmap"
)

// ChartPoint is one (x, y, [color]) tuple. Pie slices also carry their
// percentage of the whole.
type ChartPoint struct {
	X       string           `json:"x"`
	Y       decimal.Decimal  `json:"y"`
	Color   string           `json:"color,omitempty"`
	Percent *decimal.Decimal `json:"percent,omitempty"`
}

// Chart is aggregated data shaped for direct plotting. It never carries
// rendering state; building the figure belongs to the consumer.
type Chart struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Type       ChartType    `json:"type"`
	Height     int          `json:"height,omitempty"`
	XLabel     string       `json:"xLabel,omitempty"`
	YLabel     string       `json:"yLabel,omitempty"`
	ColorLabel string       `json:"colorLabel,omitempty"`
	Points     []ChartPoint `json:"points,omitempty"`
	Matrix     *Matrix      `json:"matrix,omitempty"`
}
