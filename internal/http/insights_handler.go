package httpapi

import (
	"net/http"

	"roster-data/internal/service"

	"go.uber.org/zap"
)

type InsightsHandler struct {
	insights service.InsightsService
	logger   *zap.Logger
}

func NewInsightsHandler(insights service.InsightsService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{insights: insights, logger: logger}
}

// Insights handles GET /api/insights?company. The optional company parameter
// narrows the leavers list to people who left that organization.
func (h *InsightsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.insights.GetInsights(r.Context(), r.URL.Query().Get("company"))
	if err != nil {
		h.logger.Error("GetInsights failed", zap.Error(err))
		failError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(bundle))
}
