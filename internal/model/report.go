package model

// CourseAverage is one row of the per-course marks summary.
type CourseAverage struct {
	Course       string  `json:"course"`
	AverageMarks float64 `json:"average_marks"`
	Count        int     `json:"count"`
}

// Statistics summarizes a non-empty table.
type Statistics struct {
	Total             int             `json:"total"`
	AverageMarks      float64         `json:"average_marks"`
	HighestMarks      float64         `json:"highest_marks"`
	TopScorer         string          `json:"top_scorer"`
	LowestMarks       float64         `json:"lowest_marks"`
	LowestScorer      string          `json:"lowest_scorer"`
	AverageAttendance float64         `json:"average_attendance"`
	CourseAverages    []CourseAverage `json:"course_averages"`
}

// Chart kinds understood by the chart builders.
const (
	ChartHistogram   = "histogram"
	ChartScatter     = "scatter"
	ChartBar         = "bar"
	ChartCorrelation = "heatmap"
)

// Chart is a render-ready dataset handed to an external plotting layer.
type Chart struct {
	ChartType string        `json:"chartType"`
	Title     string        `json:"title"`
	XAxis     string        `json:"xAxis,omitempty"`
	YAxis     string        `json:"yAxis,omitempty"`
	Series    []ChartSeries `json:"series,omitempty"`
	Matrix    *Matrix       `json:"matrix,omitempty"`
}

// ChartSeries is one named series of points.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartPoint is a labelled value. X is only set for scatter points.
type ChartPoint struct {
	Label string   `json:"label"`
	X     *float64 `json:"x,omitempty"`
	Value float64  `json:"value"`
}

// Matrix is a square labelled matrix. Nil cells are undefined.
type Matrix struct {
	Labels []string     `json:"labels"`
	Cells  [][]*float64 `json:"cells"`
}
