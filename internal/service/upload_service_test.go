package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studentrecords/internal/model"
	"studentrecords/internal/storage"
)

func TestImportCSV(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "students.csv"))
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, scenarioTable()))

	content := "id,name,age,gender,course,marks,attendance\n" +
		"100,Dana,23,F,ME,77.5,91\n" +
		"101,Eli,twenty,M,ME,60,80\n" +
		"102,\"Fox, Jr\",19,M,CS,88,72.25\n"

	result, err := NewUploadService(store).ImportCSV(ctx, "batch.csv", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "batch.csv", result.FileName)
	assert.Equal(t, 3, result.TotalRecords)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 4, result.FirstID, "uploaded ids are ignored")
	assert.Equal(t, 5, result.LastID)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 3, result.Skipped[0].Line)
	assert.False(t, result.EndTime.IsZero())

	students, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, students, 5)
	assert.Equal(t, model.Student{ID: 4, Name: "Dana", Age: 23, Gender: "F", Course: "ME", Marks: 77.5, Attendance: 91}, students[3])
	assert.Equal(t, model.Student{ID: 5, Name: "Fox, Jr", Age: 19, Gender: "M", Course: "CS", Marks: 88, Attendance: 72.25}, students[4])
}

func TestImportCSV_ColumnsByName(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "students.csv"))
	ctx := context.Background()

	content := "Course,Name,Marks,Attendance,Age,Gender\nCS,Gil,70,80,20,M\n"
	result, err := NewUploadService(store).ImportCSV(ctx, "b.csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.FirstID)

	students, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Student{{ID: 1, Name: "Gil", Age: 20, Gender: "M", Course: "CS", Marks: 70, Attendance: 80}}, students)
}

func TestImportCSV_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Empty file", ""},
		{"Missing column", "name,age,gender,course,marks\nA,20,F,CS,80\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			_, err := NewUploadService(store).ImportCSV(context.Background(), "x.csv", strings.NewReader(tt.content))
			assert.ErrorIs(t, err, ErrInvalidInput)
			store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestImportCSV_NothingValidSkipsSave(t *testing.T) {
	store := new(MockStore)
	store.On("Load", mock.Anything).Return(scenarioTable(), nil)

	content := "name,age,gender,course,marks,attendance\nA,x,F,CS,80,90\nB,20\n"
	result, err := NewUploadService(store).ImportCSV(context.Background(), "bad.csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Len(t, result.Skipped, 2)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImportCSV_NonFiniteScoresSkipped(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "students.csv"))
	ctx := context.Background()

	content := "name,age,gender,course,marks,attendance\nA,20,F,CS,NaN,90\nB,21,M,CS,80,Inf\nC,22,F,EE,70,75\n"
	result, err := NewUploadService(store).ImportCSV(ctx, "scores.csv", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, []int{2, 3}, []int{result.Skipped[0].Line, result.Skipped[1].Line})

	students, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Student{{ID: 1, Name: "C", Age: 22, Gender: "F", Course: "EE", Marks: 70, Attendance: 75}}, students)
}
