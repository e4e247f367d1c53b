package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"studentrecords/internal/metrics"
	"studentrecords/internal/model"
)

type ChartBuilder interface {
	Build(ctx context.Context, name string) (model.Chart, error)
}

type ChartHandler struct {
	charts  ChartBuilder
	metrics *metrics.Metrics
}

func NewChartHandler(charts ChartBuilder, m *metrics.Metrics) *ChartHandler {
	return &ChartHandler{charts: charts, metrics: m}
}

// GetChart returns the dataset for /charts/{kind}.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	chart, err := h.charts.Build(r.Context(), mux.Vars(r)["kind"])
	h.metrics.Observe("chart", start, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
