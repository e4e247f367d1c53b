package service

import (
	"context"
	"fmt"
	"math"

	"studentrecords/internal/model"
	"studentrecords/internal/storage"
)

// Chart names accepted by ChartService.Build.
const (
	ChartMarksDistribution      = "marks-distribution"
	ChartAttendanceDistribution = "attendance-distribution"
	ChartMarksVsAttendance      = "marks-vs-attendance"
	ChartCourseAverage          = "course-average"
	ChartCorrelation            = "correlation"
)

// ChartNames lists every chart in menu order.
var ChartNames = []string{
	ChartMarksDistribution,
	ChartAttendanceDistribution,
	ChartMarksVsAttendance,
	ChartCourseAverage,
	ChartCorrelation,
}

// DefaultBins is the histogram bin count used by Build.
const DefaultBins = 10

// correlationColumns are the numeric columns of the correlation matrix.
var correlationColumns = []string{"age", "marks", "attendance"}

// ChartService prepares chart datasets. Drawing them is left to the caller.
type ChartService struct {
	store storage.Store
}

func NewChartService(store storage.Store) *ChartService {
	return &ChartService{store: store}
}

// Build loads the table and builds the named chart.
func (c *ChartService) Build(ctx context.Context, name string) (model.Chart, error) {
	students, err := c.store.Load(ctx)
	if err != nil {
		return model.Chart{}, err
	}
	if len(students) == 0 {
		return model.Chart{}, ErrNoData
	}

	switch name {
	case ChartMarksDistribution:
		return HistogramChart(students, "marks", DefaultBins)
	case ChartAttendanceDistribution:
		return HistogramChart(students, "attendance", DefaultBins)
	case ChartMarksVsAttendance:
		return ScatterChart(students), nil
	case ChartCourseAverage:
		return CourseAverageChart(students), nil
	case ChartCorrelation:
		return CorrelationChart(students), nil
	default:
		return model.Chart{}, fmt.Errorf("%w: unknown chart %q", ErrInvalidInput, name)
	}
}

// HistogramChart counts values of a numeric column into equal-width bins
// spanning [min, max].
func HistogramChart(students []model.Student, column string, bins int) (model.Chart, error) {
	if len(students) == 0 {
		return model.Chart{}, ErrNoData
	}
	if bins < 1 {
		return model.Chart{}, fmt.Errorf("%w: bins must be positive", ErrInvalidInput)
	}
	values, err := numericColumn(students, column)
	if err != nil {
		return model.Chart{}, err
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		bins = 1
	}
	width := (hi - lo) / float64(bins)

	counts := make([]int, bins)
	for _, v := range values {
		i := bins - 1
		if width > 0 {
			i = int((v - lo) / width)
		}
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	points := make([]model.ChartPoint, bins)
	for i, n := range counts {
		start := lo + float64(i)*width
		points[i] = model.ChartPoint{
			Label: fmt.Sprintf("%g-%g", RoundTo2(start), RoundTo2(start+width)),
			Value: float64(n),
		}
	}

	label := axisLabel(column)
	return model.Chart{
		ChartType: model.ChartHistogram,
		Title:     label + " Distribution",
		XAxis:     label,
		YAxis:     "Count",
		Series:    []model.ChartSeries{{Name: label, Data: points}},
	}, nil
}

// ScatterChart plots marks against attendance with one series per course.
func ScatterChart(students []model.Student) model.Chart {
	groups := groupByCourse(students)
	series := make([]model.ChartSeries, 0, len(groups))
	for _, g := range groups {
		points := make([]model.ChartPoint, 0, len(g.students))
		for _, s := range g.students {
			x := s.Attendance
			points = append(points, model.ChartPoint{Label: s.Name, X: &x, Value: s.Marks})
		}
		series = append(series, model.ChartSeries{Name: g.course, Data: points})
	}
	return model.Chart{
		ChartType: model.ChartScatter,
		Title:     "Marks vs Attendance",
		XAxis:     "Attendance %",
		YAxis:     "Marks",
		Series:    series,
	}
}

// CourseAverageChart is a bar per course of unrounded mean marks.
func CourseAverageChart(students []model.Student) model.Chart {
	groups := groupByCourse(students)
	points := make([]model.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, model.ChartPoint{Label: g.course, Value: mean(g.marks)})
	}
	return model.Chart{
		ChartType: model.ChartBar,
		Title:     "Average Marks by Course",
		XAxis:     "Course",
		YAxis:     "Average Marks",
		Series:    []model.ChartSeries{{Name: "Average Marks", Data: points}},
	}
}

// CorrelationChart holds pairwise Pearson coefficients of age, marks and
// attendance. Pairs involving a constant column are undefined.
func CorrelationChart(students []model.Student) model.Chart {
	columns := make([][]float64, len(correlationColumns))
	for i, name := range correlationColumns {
		columns[i], _ = numericColumn(students, name)
	}

	cells := make([][]*float64, len(columns))
	for i := range columns {
		cells[i] = make([]*float64, len(columns))
		for j := range columns {
			cells[i][j] = pearson(columns[i], columns[j])
		}
	}
	return model.Chart{
		ChartType: model.ChartCorrelation,
		Title:     "Correlation Heatmap",
		Matrix:    &model.Matrix{Labels: correlationColumns, Cells: cells},
	}
}

func numericColumn(students []model.Student, column string) ([]float64, error) {
	values := make([]float64, len(students))
	for i, s := range students {
		switch column {
		case "age":
			values[i] = float64(s.Age)
		case "marks":
			values[i] = s.Marks
		case "attendance":
			values[i] = s.Attendance
		default:
			return nil, fmt.Errorf("%w: %q is not a numeric column", ErrInvalidInput, column)
		}
	}
	return values, nil
}

func pearson(x, y []float64) *float64 {
	if len(x) < 2 || len(x) != len(y) {
		return nil
	}
	mx, my := mean(x), mean(y)
	var cov, vx, vy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return nil
	}
	r := cov / math.Sqrt(vx*vy)
	return &r
}

func axisLabel(column string) string {
	switch column {
	case "attendance":
		return "Attendance %"
	case "marks":
		return "Marks"
	default:
		return column
	}
}
