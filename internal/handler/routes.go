package handler

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"studentrecords/internal/metrics"
)

// NewRouter registers every API route.
func NewRouter(students *StudentHandler, uploads *UploadHandler, charts *ChartHandler, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/students", students.ListStudents).Methods("GET")
	r.HandleFunc("/students", students.CreateStudent).Methods("POST")
	r.HandleFunc("/students/stats", students.Statistics).Methods("GET")
	r.HandleFunc("/students/top", students.TopStudents).Methods("GET")
	r.HandleFunc("/students/course-average", students.CourseAverages).Methods("GET")
	r.HandleFunc("/students/{id:[0-9]+}", students.GetStudent).Methods("GET")
	r.HandleFunc("/students/{id:[0-9]+}", students.UpdateStudent).Methods("PUT", "PATCH")
	r.HandleFunc("/students/{id:[0-9]+}", students.DeleteStudent).Methods("DELETE")

	r.HandleFunc("/upload", uploads.UploadCSV).Methods("POST")
	r.HandleFunc("/charts/{kind}", charts.GetChart).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	return r
}

// Wrap adds CORS, access logging to logOut and panic recovery.
func Wrap(h http.Handler, allowedOrigins []string, logOut io.Writer) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.LoggingHandler(logOut, h)
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
}
