package handler

import (
	"net/http"

	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/service"
)

type DashboardHandler struct {
	goalService *service.GoalService
}

func NewDashboardHandler(goalService *service.GoalService) *DashboardHandler {
	return &DashboardHandler{
		goalService: goalService,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.goalService.Summary(r.Context(), user)
	if err != nil {
		writeError(w, r, err, "failed to build dashboard")
		return
	}

	respond.JSON(w, http.StatusOK, "dashboard retrieved", summary)
}
