package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"studentrecords/internal/service"
	"studentrecords/internal/storage"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Success", nil, ResultOK},
		{"Not found", fmt.Errorf("get: %w", service.ErrNotFound), ResultNotFound},
		{"Invalid input", service.ErrInvalidInput, ResultInvalid},
		{"No data", service.ErrNoData, ResultNoData},
		{"Storage", storage.ErrUnavailable, ResultError},
		{"Other", errors.New("boom"), ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Result(tt.err))
		})
	}
}

func TestObserve(t *testing.T) {
	m := New()
	start := time.Now()

	m.Observe("add", start, nil)
	m.Observe("add", start, nil)
	m.Observe("delete", start, service.ErrNotFound)
	m.SetStudents(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("add", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("delete", ResultNotFound)))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.students))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe("list", time.Now(), nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `studentrecords_operations_total{operation="list",result="ok"} 1`)
}
