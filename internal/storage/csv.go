package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"studentrecords/internal/model"
)

// WriteCSV writes the header and one row per student in table order.
func WriteCSV(w io.Writer, students []model.Student) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.Columns); err != nil {
		return err
	}
	for _, s := range students {
		row := []string{
			strconv.Itoa(s.ID),
			s.Name,
			strconv.Itoa(s.Age),
			s.Gender,
			s.Course,
			formatFloat(s.Marks),
			formatFloat(s.Attendance),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV decodes a table written by WriteCSV. Columns are matched by header
// name, so files with reordered columns still load. An empty document is an
// empty table.
func ReadCSV(r io.Reader) ([]model.Student, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return []model.Student{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformed, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range model.Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, col)
		}
	}

	students := []model.Student{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		s, err := decodeRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		students = append(students, s)
	}
	return students, nil
}

func decodeRow(row []string, index map[string]int) (model.Student, error) {
	field := func(name string) string { return strings.TrimSpace(row[index[name]]) }

	id, err := parseInt(field("id"))
	if err != nil {
		return model.Student{}, fmt.Errorf("id: %w", err)
	}
	age, err := parseInt(field("age"))
	if err != nil {
		return model.Student{}, fmt.Errorf("age: %w", err)
	}
	marks, err := parseFloat(field("marks"))
	if err != nil {
		return model.Student{}, fmt.Errorf("marks: %w", err)
	}
	attendance, err := parseFloat(field("attendance"))
	if err != nil {
		return model.Student{}, fmt.Errorf("attendance: %w", err)
	}

	return model.Student{
		ID:         id,
		Name:       row[index["name"]],
		Age:        age,
		Gender:     row[index["gender"]],
		Course:     row[index["course"]],
		Marks:      marks,
		Attendance: attendance,
	}, nil
}

// parseInt also accepts integral floats such as "20.0", which spreadsheet
// tools tend to write for integer columns.
func parseInt(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, errors.New("not an integer: " + strconv.Quote(v))
	}
	return int(f), nil
}

// parseFloat rejects NaN and infinities, which JSON cannot carry.
func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number: " + strconv.Quote(v))
	}
	return f, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
