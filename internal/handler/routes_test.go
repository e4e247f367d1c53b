package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentrecords/internal/metrics"
	"studentrecords/internal/model"
	"studentrecords/internal/service"
	"studentrecords/internal/storage"
)

func setupTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "students_data.csv")
	store := storage.NewLockedStore(storage.NewFileStore(path))
	m := metrics.New()

	router := NewRouter(
		NewStudentHandler(service.NewStudentService(store), m, 5),
		NewUploadHandler(service.NewUploadService(store), m),
		NewChartHandler(service.NewChartService(store), m),
		m,
	)
	return Wrap(router, []string{"http://localhost:3000"}, io.Discard), path
}

func TestRouter_StudentLifecycle(t *testing.T) {
	srv, path := setupTestServer(t)

	w := serve(srv, "GET", "/students/stats", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "statistics on an empty table")

	for _, body := range []string{
		`{"name":"A","age":20,"gender":"F","course":"CS","marks":80,"attendance":90}`,
		`{"name":"B","age":21,"gender":"M","course":"CS","marks":90,"attendance":80}`,
		`{"name":"C","age":22,"gender":"F","course":"EE","marks":70,"attendance":70}`,
	} {
		require.Equal(t, http.StatusCreated, serve(srv, "POST", "/students", body).Code)
	}

	w = serve(srv, "GET", "/students/top?n=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var top struct {
		Data []model.Student `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&top))
	require.Len(t, top.Data, 2)
	assert.Equal(t, "B", top.Data[0].Name)
	assert.Equal(t, "A", top.Data[1].Name)

	w = serve(srv, "GET", "/students/course-average", "")
	assert.JSONEq(t, `{"data":[{"course":"CS","average_marks":85,"count":2},{"course":"EE","average_marks":70,"count":1}]}`, w.Body.String())

	require.Equal(t, http.StatusNoContent, serve(srv, "DELETE", "/students/2", "").Code)
	w = serve(srv, "POST", "/students", `{"name":"D","age":23,"gender":"M","course":"ME","marks":60,"attendance":60}`)
	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, 4, created.ID, "deleted ids are not refilled")

	w = serve(srv, "PATCH", "/students/1", `{"course":"ME"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Student
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, model.Student{ID: 1, Name: "A", Age: 20, Gender: "F", Course: "ME", Marks: 80, Attendance: 90}, updated)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "id,name,age,gender,course,marks,attendance", lines[0])
	assert.Len(t, lines, 4)
}

func TestRouter_UploadAppends(t *testing.T) {
	srv, _ := setupTestServer(t)
	require.Equal(t, http.StatusCreated, serve(srv, "POST", "/students",
		`{"name":"A","age":20,"gender":"F","course":"CS","marks":80,"attendance":90}`).Code)

	body, contentType := multipartBody(t, map[string]string{
		"more.csv": "id,name,age,gender,course,marks,attendance\n99,E,19,F,CS,88,95\n,F,abc,M,EE,50,50\n",
	})
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(srv, "GET", "/students?name=e", "")
	var response struct {
		Data []model.Student `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, 2, response.Data[0].ID, "uploaded ids are reassigned")
}

func TestRouter_Metrics(t *testing.T) {
	srv, _ := setupTestServer(t)
	serve(srv, "GET", "/students", "")
	serve(srv, "GET", "/students/42", "")

	w := serve(srv, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `studentrecords_operations_total{operation="list",result="ok"} 1`)
	assert.Contains(t, w.Body.String(), `studentrecords_operations_total{operation="get",result="not_found"} 1`)
}

func TestRouter_CORS(t *testing.T) {
	srv, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/students", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UploadRejectsNonFiniteScores(t *testing.T) {
	srv, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{
		"scores.csv": "name,age,gender,course,marks,attendance\nA,20,F,CS,NaN,90\nB,21,M,CS,80,Inf\n",
	})
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":0`)

	w = serve(srv, "GET", "/students", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())

	assert.Equal(t, http.StatusNoContent, serve(srv, "GET", "/students/stats", "").Code)
}
