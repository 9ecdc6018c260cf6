package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/service"
)

// UserIDHeader identifies the goal owner for clients without a bearer token.
const UserIDHeader = "X-User-ID"

type createGoalRequest struct {
	Type     string    `json:"type" validate:"required,max=100"`
	Target   float64   `json:"target" validate:"gt=0"`
	Deadline time.Time `json:"deadline" validate:"required"`
	Progress float64   `json:"progress" validate:"gte=0"`
}

type updateGoalRequest struct {
	Type     string    `json:"type" validate:"required,max=100"`
	Target   float64   `json:"target" validate:"gt=0"`
	Deadline time.Time `json:"deadline"`
	Progress float64   `json:"progress" validate:"gte=0"`
}

type progressRequest struct {
	Progress *float64 `json:"progress" validate:"required,gte=0"`
}

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// ownerID resolves whose goals the request is about: the authenticated user,
// else the X-User-ID header. Both present and different is forbidden.
func ownerID(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get(UserIDHeader))

	if user := ctxkeys.User(r.Context()); user != nil {
		if header != "" && header != user.ID {
			return "", errForbidden
		}
		return user.ID, nil
	}

	if header == "" {
		return "", errMissingOwner
	}
	return header, nil
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	goals, err := h.goalService.Goals(r.Context(), userID, r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, r, err, "failed to get goals")
		return
	}

	respond.JSON(w, http.StatusOK, "goals retrieved", goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req createGoalRequest
	if !decode(w, r, &req) {
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, service.GoalInput{
		Type:     req.Type,
		Target:   req.Target,
		Deadline: req.Deadline,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, r, err, "failed to create goal")
		return
	}

	respond.JSON(w, http.StatusCreated, "goal created", goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	goal, err := h.goalService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to get goal")
		return
	}

	respond.JSON(w, http.StatusOK, "goal retrieved", goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req updateGoalRequest
	if !decode(w, r, &req) {
		return
	}

	goal, err := h.goalService.Update(r.Context(), userID, r.PathValue("id"), service.GoalInput{
		Type:     req.Type,
		Target:   req.Target,
		Deadline: req.Deadline,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, r, err, "failed to update goal")
		return
	}

	respond.JSON(w, http.StatusOK, "goal updated", goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	err = h.goalService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to delete goal")
		return
	}

	respond.NoContent(w)
}

func (h *GoalHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	status, err := h.goalService.ProgressStatus(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to get goal progress")
		return
	}

	respond.JSON(w, http.StatusOK, "goal progress retrieved", status)
}

func (h *GoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req progressRequest
	if !decode(w, r, &req) {
		return
	}

	goalID := r.PathValue("id")
	_, err = h.goalService.UpdateProgress(r.Context(), userID, goalID, *req.Progress)
	if err != nil {
		writeError(w, r, err, "failed to update goal progress")
		return
	}

	status, err := h.goalService.ProgressStatus(r.Context(), userID, goalID)
	if err != nil {
		writeError(w, r, err, "failed to get goal progress")
		return
	}

	respond.JSON(w, http.StatusOK, "goal progress updated", status)
}
