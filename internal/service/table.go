package service

import (
	"math"
	"sort"
	"strings"

	"studentrecords/internal/model"
)

// ============================================================================
// TABLE OPERATIONS: pure functions over the ordered student table
// ============================================================================
// None of these touch storage. Inputs are never modified; mutating helpers
// return a new slice.
// ============================================================================

// NextID returns 1 for an empty table, otherwise the largest id plus one.
// Gaps left by deletions are never refilled.
func NextID(students []model.Student) int {
	maxID := 0
	for _, s := range students {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID + 1
}

// FindByID returns the student with exactly this id.
func FindByID(students []model.Student, id int) (model.Student, error) {
	i := indexOf(students, id)
	if i < 0 {
		return model.Student{}, ErrNotFound
	}
	return students[i], nil
}

// SearchByName returns students whose name contains query, ignoring case,
// in table order.
func SearchByName(students []model.Student, query string) []model.Student {
	q := strings.ToLower(query)
	result := []model.Student{}
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), q) {
			result = append(result, s)
		}
	}
	return result
}

// ApplyUpdate returns a copy of the table with the update applied to the
// student with id.
func ApplyUpdate(students []model.Student, id int, update model.StudentUpdate) ([]model.Student, error) {
	i := indexOf(students, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := make([]model.Student, len(students))
	copy(out, students)
	out[i] = update.Apply(out[i])
	return out, nil
}

// RemoveByID returns a copy of the table without the student with id.
func RemoveByID(students []model.Student, id int) ([]model.Student, error) {
	i := indexOf(students, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := make([]model.Student, 0, len(students)-1)
	out = append(out, students[:i]...)
	return append(out, students[i+1:]...), nil
}

// TopN returns up to n students with the highest marks. Equal marks keep
// table order.
func TopN(students []model.Student, n int) []model.Student {
	if n <= 0 {
		return []model.Student{}
	}
	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Marks > sorted[j].Marks })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CourseAverages returns the mean marks per distinct course, rounded to two
// decimals and sorted by course name.
func CourseAverages(students []model.Student) []model.CourseAverage {
	groups := groupByCourse(students)
	result := make([]model.CourseAverage, 0, len(groups))
	for _, g := range groups {
		result = append(result, model.CourseAverage{
			Course:       g.course,
			AverageMarks: RoundTo2(mean(g.marks)),
			Count:        len(g.marks),
		})
	}
	return result
}

// ComputeStatistics summarizes the table. Ties for highest or lowest marks
// resolve to the first student in table order.
func ComputeStatistics(students []model.Student) (model.Statistics, error) {
	if len(students) == 0 {
		return model.Statistics{}, ErrNoData
	}

	top, low := students[0], students[0]
	var marksSum, attendanceSum float64
	for _, s := range students {
		marksSum += s.Marks
		attendanceSum += s.Attendance
		if s.Marks > top.Marks {
			top = s
		}
		if s.Marks < low.Marks {
			low = s
		}
	}

	n := float64(len(students))
	return model.Statistics{
		Total:             len(students),
		AverageMarks:      marksSum / n,
		HighestMarks:      top.Marks,
		TopScorer:         top.Name,
		LowestMarks:       low.Marks,
		LowestScorer:      low.Name,
		AverageAttendance: attendanceSum / n,
		CourseAverages:    CourseAverages(students),
	}, nil
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

type courseGroup struct {
	course   string
	marks    []float64
	students []model.Student
}

// groupByCourse groups on exact course equality, sorted by course.
func groupByCourse(students []model.Student) []*courseGroup {
	byCourse := make(map[string]*courseGroup)
	var groups []*courseGroup
	for _, s := range students {
		g, ok := byCourse[s.Course]
		if !ok {
			g = &courseGroup{course: s.Course}
			byCourse[s.Course] = g
			groups = append(groups, g)
		}
		g.marks = append(g.marks, s.Marks)
		g.students = append(g.students, s)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].course < groups[j].course })
	return groups
}

func indexOf(students []model.Student, id int) int {
	for i, s := range students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
