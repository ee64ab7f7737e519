package api

import (
	"net/http"
	"time"

	"github.com/erazemk/zbirka/internal/model"
	"github.com/erazemk/zbirka/internal/query"
	"github.com/erazemk/zbirka/internal/store"
)

// StatsHandler serves the aggregate views of the collection.
type StatsHandler struct {
	Items *store.Store
}

type statsResponse struct {
	Summary         model.Summary           `json:"summary"`
	ConditionCounts map[model.Condition]int `json:"conditionCounts"`
	ConditionShares []model.ConditionShare  `json:"conditionShares"`
	MonthlyGrowth   []model.MonthlyCount    `json:"monthlyGrowth"`
}

// Get handles GET /api/stats. Months are grouped in the server's local time
// unless ?tz= names an IANA zone.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	loc := time.Local
	if tz := r.URL.Query().Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "unknown time zone")
			return
		}
		loc = l
	}

	items := h.Items.Items()
	jsonResponse(w, http.StatusOK, statsResponse{
		Summary:         query.Summarize(items),
		ConditionCounts: query.ConditionCounts(items),
		ConditionShares: query.ConditionShares(items),
		MonthlyGrowth:   query.MonthlyGrowthIn(items, loc),
	})
}
