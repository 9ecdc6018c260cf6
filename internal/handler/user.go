package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/fitgoals/internal/ctxkeys"
	"github.com/templui/fitgoals/internal/respond"
	"github.com/templui/fitgoals/internal/service"
)

const maxAvatarRequestBytes = 10 << 20

type userRequest struct {
	Email    string  `json:"email" validate:"required,max=254"`
	Name     string  `json:"name" validate:"required,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (req userRequest) input() service.UserInput {
	return service.UserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
}

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// requireSelf only lets the authenticated user modify their own account.
func requireSelf(r *http.Request) (string, error) {
	id := r.PathValue("id")
	user := ctxkeys.User(r.Context())
	if user == nil || user.ID != id {
		return "", errForbidden
	}
	return id, nil
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Users(r.Context())
	if err != nil {
		writeError(w, r, err, "failed to list users")
		return
	}

	respond.JSON(w, http.StatusOK, "users retrieved", users)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, r, err, "failed to create user")
		return
	}

	respond.JSON(w, http.StatusCreated, "user created", user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "failed to get user")
		return
	}

	respond.JSON(w, http.StatusOK, "user retrieved", user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := requireSelf(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	var req userRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err, "failed to update user")
		return
	}

	respond.JSON(w, http.StatusOK, "user updated", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := requireSelf(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	err = h.userService.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to delete user")
		return
	}

	respond.NoContent(w)
}

func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := requireSelf(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestBytes)
	err = r.ParseMultipartForm(maxAvatarRequestBytes)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "failed to parse multipart form", nil)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	user, err := h.userService.UploadAvatar(r.Context(), id, header)
	if err != nil {
		writeError(w, r, err, "failed to upload avatar")
		return
	}

	respond.JSON(w, http.StatusOK, "avatar uploaded", user)
}

func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := requireSelf(r)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	err = h.userService.DeleteAvatar(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to delete avatar")
		return
	}

	respond.NoContent(w)
}
