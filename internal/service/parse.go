package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"studentrecords/internal/model"
)

// RawFields carries unparsed text input for a student, as typed at a prompt
// or read from an uploaded CSV row.
type RawFields struct {
	Name       string
	Age        string
	Gender     string
	Course     string
	Marks      string
	Attendance string
}

// ParseFields coerces every field of a new student.
func ParseFields(raw RawFields) (model.StudentFields, error) {
	age, err := parseAge(raw.Age)
	if err != nil {
		return model.StudentFields{}, err
	}
	marks, err := parseScore("marks", raw.Marks)
	if err != nil {
		return model.StudentFields{}, err
	}
	attendance, err := parseScore("attendance", raw.Attendance)
	if err != nil {
		return model.StudentFields{}, err
	}

	return model.StudentFields{
		Name:       strings.TrimSpace(raw.Name),
		Age:        age,
		Gender:     strings.TrimSpace(raw.Gender),
		Course:     strings.TrimSpace(raw.Course),
		Marks:      marks,
		Attendance: attendance,
	}, nil
}

// ParseUpdate coerces the non-blank fields of raw. Blank fields stay nil,
// which keeps the stored value.
func ParseUpdate(raw RawFields) (model.StudentUpdate, error) {
	var update model.StudentUpdate

	if v := strings.TrimSpace(raw.Name); v != "" {
		update.Name = &v
	}
	if v := strings.TrimSpace(raw.Gender); v != "" {
		update.Gender = &v
	}
	if v := strings.TrimSpace(raw.Course); v != "" {
		update.Course = &v
	}
	if strings.TrimSpace(raw.Age) != "" {
		age, err := parseAge(raw.Age)
		if err != nil {
			return model.StudentUpdate{}, err
		}
		update.Age = &age
	}
	if strings.TrimSpace(raw.Marks) != "" {
		marks, err := parseScore("marks", raw.Marks)
		if err != nil {
			return model.StudentUpdate{}, err
		}
		update.Marks = &marks
	}
	if strings.TrimSpace(raw.Attendance) != "" {
		attendance, err := parseScore("attendance", raw.Attendance)
		if err != nil {
			return model.StudentUpdate{}, err
		}
		update.Attendance = &attendance
	}
	return update, nil
}

// ParseID coerces a student id typed by the user.
func ParseID(v string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: id %q is not an integer", ErrInvalidInput, v)
	}
	return id, nil
}

func parseAge(v string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: age %q is not an integer", ErrInvalidInput, v)
	}
	return age, nil
}

func parseScore(field, v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, field, v)
	}
	return f, nil
}
