package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studentrecords/internal/metrics"
	"studentrecords/internal/model"
	"studentrecords/internal/service"
)

// StudentTable is the part of service.StudentService the HTTP API uses.
type StudentTable interface {
	List(ctx context.Context) ([]model.Student, error)
	Add(ctx context.Context, fields model.StudentFields) (int, error)
	Get(ctx context.Context, id int) (model.Student, error)
	Search(ctx context.Context, query string) ([]model.Student, error)
	Update(ctx context.Context, id int, update model.StudentUpdate) (model.Student, error)
	Delete(ctx context.Context, id int) error
	Statistics(ctx context.Context) (model.Statistics, error)
	TopStudents(ctx context.Context, n int) ([]model.Student, error)
	CourseAverages(ctx context.Context) ([]model.CourseAverage, error)
}

type StudentHandler struct {
	students StudentTable
	metrics  *metrics.Metrics
	topN     int
}

func NewStudentHandler(students StudentTable, m *metrics.Metrics, topN int) *StudentHandler {
	return &StudentHandler{students: students, metrics: m, topN: topN}
}

// ListStudents returns the whole table, or the name matches when ?name= is set.
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := r.URL.Query().Get("name")

	var (
		students []model.Student
		err      error
	)
	if name != "" {
		students, err = h.students.Search(r.Context(), name)
		h.metrics.Observe("search", start, err)
	} else {
		students, err = h.students.List(r.Context())
		h.metrics.Observe("list", start, err)
		if err == nil {
			h.metrics.SetStudents(len(students))
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  students,
		"total": len(students),
	})
}

// CreateStudent requires every field in the body. Empty values are stored
// as given.
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	fields, err := decodeNewStudent(r)

	var id int
	if err == nil {
		id, err = h.students.Add(r.Context(), fields)
	}
	h.metrics.Observe("add", start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":   id,
		"data": fields.WithID(id),
	})
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)

	var student model.Student
	if err == nil {
		student, err = h.students.Get(r.Context(), id)
	}
	h.metrics.Observe("get", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// UpdateStudent applies a partial update. Omitted fields keep their value.
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)

	var update model.StudentUpdate
	if err == nil {
		err = decodeBody(r, &update)
	}
	var student model.Student
	if err == nil {
		student, err = h.students.Update(r.Context(), id, update)
	}
	h.metrics.Observe("update", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r)
	if err == nil {
		err = h.students.Delete(r.Context(), id)
	}
	h.metrics.Observe("delete", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Statistics answers 204 when the table is empty.
func (h *StudentHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.students.Statistics(r.Context())
	h.metrics.Observe("statistics", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StudentHandler) TopStudents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n := h.topN
	var err error
	if v := r.URL.Query().Get("n"); v != "" {
		n, err = strconv.Atoi(v)
		if err != nil || n < 1 {
			err = fmt.Errorf("%w: n must be a positive integer", service.ErrInvalidInput)
		}
	}

	var students []model.Student
	if err == nil {
		students, err = h.students.TopStudents(r.Context(), n)
	}
	h.metrics.Observe("top", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"n":    n,
		"data": students,
	})
}

func (h *StudentHandler) CourseAverages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	averages, err := h.students.CourseAverages(r.Context())
	h.metrics.Observe("course_average", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": averages})
}

func decodeNewStudent(r *http.Request) (model.StudentFields, error) {
	var body model.StudentUpdate
	if err := decodeBody(r, &body); err != nil {
		return model.StudentFields{}, err
	}
	if missing := body.Missing(); len(missing) > 0 {
		return model.StudentFields{}, fmt.Errorf("%w: missing %s", service.ErrInvalidInput, strings.Join(missing, ", "))
	}
	s := body.Apply(model.Student{})
	return model.StudentFields{
		Name:       s.Name,
		Age:        s.Age,
		Gender:     s.Gender,
		Course:     s.Course,
		Marks:      s.Marks,
		Attendance: s.Attendance,
	}, nil
}
