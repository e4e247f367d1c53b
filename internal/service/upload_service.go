package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"studentrecords/internal/model"
	"studentrecords/internal/storage"
)

var importColumns = []string{"name", "age", "gender", "course", "marks", "attendance"}

// RowError describes an uploaded row that was skipped.
type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ImportResult reports what an upload added to the table.
type ImportResult struct {
	FileName     string     `json:"file_name"`
	TotalRecords int        `json:"total_records"`
	Imported     int        `json:"imported"`
	FirstID      int        `json:"first_id,omitempty"`
	LastID       int        `json:"last_id,omitempty"`
	Skipped      []RowError `json:"skipped,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
}

// UploadService appends students from uploaded CSV files.
type UploadService struct {
	store storage.Store
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store}
}

// ImportCSV parses every row of r, then appends the valid ones with fresh ids
// in a single storage.Modify cycle. Any id column in the upload is ignored.
// Rows that fail coercion are skipped and reported.
func (s *UploadService) ImportCSV(ctx context.Context, fileName string, r io.Reader) (ImportResult, error) {
	result := ImportResult{FileName: fileName, StartTime: time.Now()}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("%w: read header of %s: %v", ErrInvalidInput, fileName, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return result, fmt.Errorf("%w: %s is missing column %q", ErrInvalidInput, fileName, col)
		}
	}

	var parsed []model.StudentFields
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		result.TotalRecords++
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Error: err.Error()})
			continue
		}
		if len(record) < len(header) {
			result.Skipped = append(result.Skipped, RowError{Line: line, Error: "wrong number of fields"})
			continue
		}

		fields, err := ParseFields(RawFields{
			Name:       record[index["name"]],
			Age:        record[index["age"]],
			Gender:     record[index["gender"]],
			Course:     record[index["course"]],
			Marks:      record[index["marks"]],
			Attendance: record[index["attendance"]],
		})
		if err != nil {
			log.Printf("Skipping line %d of %s: %v", line, fileName, err)
			result.Skipped = append(result.Skipped, RowError{Line: line, Error: err.Error()})
			continue
		}
		parsed = append(parsed, fields)
	}

	err = storage.Modify(ctx, s.store, func(students []model.Student) ([]model.Student, error) {
		if len(parsed) == 0 {
			return nil, storage.SkipSave
		}
		nextID := NextID(students)
		result.FirstID = nextID
		for _, fields := range parsed {
			students = append(students, fields.WithID(nextID))
			result.LastID = nextID
			nextID++
		}
		return students, nil
	})
	if err != nil {
		result.FirstID, result.LastID = 0, 0
		return result, fmt.Errorf("import %s: %w", fileName, err)
	}
	result.Imported = len(parsed)

	result.EndTime = time.Now()
	log.Printf("Imported %d of %d records from %s in %v", result.Imported, result.TotalRecords, fileName, result.EndTime.Sub(result.StartTime))
	return result, nil
}
