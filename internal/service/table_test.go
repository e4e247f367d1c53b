package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentrecords/internal/model"
)

// scenarioTable is A(80, CS), B(90, CS), C(70, EE).
func scenarioTable() []model.Student {
	return []model.Student{
		{ID: 1, Name: "A", Age: 20, Gender: "F", Course: "CS", Marks: 80, Attendance: 90},
		{ID: 2, Name: "B", Age: 21, Gender: "M", Course: "CS", Marks: 90, Attendance: 85},
		{ID: 3, Name: "C", Age: 22, Gender: "F", Course: "EE", Marks: 70, Attendance: 60},
	}
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name     string
		students []model.Student
		expected int
	}{
		{"Empty table", nil, 1},
		{"Contiguous ids", scenarioTable(), 4},
		{"Gapped ids", []model.Student{{ID: 1}, {ID: 7}, {ID: 3}}, 8},
		{"After deleting the highest id", []model.Student{{ID: 1}, {ID: 2}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextID(tt.students))
		})
	}
}

func TestFindByID(t *testing.T) {
	s, err := FindByID(scenarioTable(), 2)
	require.NoError(t, err)
	assert.Equal(t, "B", s.Name)

	_, err = FindByID(scenarioTable(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchByName(t *testing.T) {
	students := []model.Student{
		{ID: 1, Name: "alice"},
		{ID: 2, Name: "bob"},
		{ID: 3, Name: "ALICE"},
		{ID: 4, Name: "Amanda"},
	}

	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{"Single letter any case", "A", []int{1, 3, 4}},
		{"Substring not anchored", "lic", []int{1, 3}},
		{"Full name", "bob", []int{2}},
		{"No match", "zed", []int{}},
		{"Empty query matches all", "", []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []int{}
			for _, s := range SearchByName(students, tt.query) {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestApplyUpdate(t *testing.T) {
	original := scenarioTable()

	t.Run("No fields keeps everything", func(t *testing.T) {
		updated, err := ApplyUpdate(original, 2, model.StudentUpdate{})
		require.NoError(t, err)
		assert.Equal(t, original, updated)
	})

	t.Run("One field changes only that field", func(t *testing.T) {
		marks := 95.5
		updated, err := ApplyUpdate(original, 2, model.StudentUpdate{Marks: &marks})
		require.NoError(t, err)

		expected := scenarioTable()
		expected[1].Marks = 95.5
		assert.Equal(t, expected, updated)
		assert.Equal(t, 90.0, original[1].Marks, "input must not be modified")
	})

	t.Run("All fields", func(t *testing.T) {
		name, gender, course := "Bea", "F", "ME"
		age, marks, attendance := 30, 10.0, 20.0
		updated, err := ApplyUpdate(original, 1, model.StudentUpdate{
			Name: &name, Age: &age, Gender: &gender, Course: &course, Marks: &marks, Attendance: &attendance,
		})
		require.NoError(t, err)
		assert.Equal(t, model.Student{ID: 1, Name: "Bea", Age: 30, Gender: "F", Course: "ME", Marks: 10, Attendance: 20}, updated[0])
	})

	t.Run("Unknown id", func(t *testing.T) {
		_, err := ApplyUpdate(original, 9, model.StudentUpdate{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRemoveByID(t *testing.T) {
	remaining, err := RemoveByID(scenarioTable(), 2)
	require.NoError(t, err)
	assert.Equal(t, []model.Student{scenarioTable()[0], scenarioTable()[2]}, remaining)
	assert.Equal(t, 4, NextID(remaining))

	_, err = RemoveByID(scenarioTable(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopN(t *testing.T) {
	top := TopN(scenarioTable(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, "A", top[1].Name)

	assert.Len(t, TopN(scenarioTable(), 10), 3)
	assert.Empty(t, TopN(scenarioTable(), 0))
	assert.Empty(t, TopN(nil, 5))
}

func TestTopN_TiesKeepTableOrder(t *testing.T) {
	students := []model.Student{
		{ID: 1, Name: "first", Marks: 50},
		{ID: 2, Name: "second", Marks: 75},
		{ID: 3, Name: "third", Marks: 75},
		{ID: 4, Name: "fourth", Marks: 75},
	}
	var names []string
	for _, s := range TopN(students, 3) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"second", "third", "fourth"}, names)
}

func TestCourseAverages(t *testing.T) {
	assert.Equal(t, []model.CourseAverage{
		{Course: "CS", AverageMarks: 85, Count: 2},
		{Course: "EE", AverageMarks: 70, Count: 1},
	}, CourseAverages(scenarioTable()))

	rounded := CourseAverages([]model.Student{
		{ID: 1, Course: "Math", Marks: 70},
		{ID: 2, Course: "Math", Marks: 71},
		{ID: 3, Course: "Math", Marks: 71},
		{ID: 4, Course: "math", Marks: 10},
	})
	require.Len(t, rounded, 2, "course grouping is case-sensitive")
	assert.Equal(t, 70.67, rounded[0].AverageMarks)
	assert.Equal(t, "math", rounded[1].Course)

	assert.Empty(t, CourseAverages(nil))
}

func TestComputeStatistics(t *testing.T) {
	remaining, err := RemoveByID(scenarioTable(), 2)
	require.NoError(t, err)

	stats, err := ComputeStatistics(remaining)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 75.0, stats.AverageMarks)
	assert.Equal(t, 80.0, stats.HighestMarks)
	assert.Equal(t, "A", stats.TopScorer)
	assert.Equal(t, 70.0, stats.LowestMarks)
	assert.Equal(t, "C", stats.LowestScorer)
	assert.Equal(t, 75.0, stats.AverageAttendance)
	assert.Equal(t, []model.CourseAverage{
		{Course: "CS", AverageMarks: 80, Count: 1},
		{Course: "EE", AverageMarks: 70, Count: 1},
	}, stats.CourseAverages)
}

func TestComputeStatistics_TiesPickFirst(t *testing.T) {
	stats, err := ComputeStatistics([]model.Student{
		{ID: 1, Name: "low1", Marks: 40},
		{ID: 2, Name: "high1", Marks: 90},
		{ID: 3, Name: "low2", Marks: 40},
		{ID: 4, Name: "high2", Marks: 90},
	})
	require.NoError(t, err)
	assert.Equal(t, "high1", stats.TopScorer)
	assert.Equal(t, "low1", stats.LowestScorer)
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats, err := ComputeStatistics(nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, model.Statistics{}, stats)
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 85.0, RoundTo2(85))
	assert.Equal(t, 70.67, RoundTo2(212.0/3))
	assert.Equal(t, 0.13, RoundTo2(0.125000001))
}
