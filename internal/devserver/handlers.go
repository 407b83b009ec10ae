package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/dmitrijs2005/leadsession/internal/devserver/groups"
	"github.com/dmitrijs2005/leadsession/internal/devserver/users"
	"github.com/dmitrijs2005/leadsession/internal/logging"
	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

type handlers struct {
	svc    *UserService
	groups *GroupService
	logger logging.Logger
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

type groupBody struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"owner,omitempty"`
	Members     []string `json:"members"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if !decode(w, r, &req) {
		return
	}
	refresh, err := h.svc.Login(r.Context(), req.Identifier, req.Secret)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{RefreshToken: refresh})
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	u, pair, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.RegisterResponse{
		User:         toModel(u),
		RefreshToken: pair.RefreshToken,
		AccessToken:  pair.AccessToken,
	})
}

func (h *handlers) accessToken(w http.ResponseWriter, r *http.Request) {
	var req models.AccessTokenRequest
	if !decode(w, r, &req) {
		return
	}
	access, u, err := h.svc.AccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.AccessTokenResponse{AccessToken: access, User: toModel(u)})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), userIDFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ErrorBody{Message: "Logged out"})
}

func (h *handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ErrorBody{Message: "If the account exists, a code has been sent"})
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ErrorBody{Message: "Password updated"})
}

func (h *handlers) leads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"leads": []map[string]string{
			{"_id": "l-1", "name": "Acme Corp", "status": "new", "owner": userIDFrom(r.Context())},
			{"_id": "l-2", "name": "Globex", "status": "contacted", "owner": userIDFrom(r.Context())},
		},
	})
}

func (h *handlers) groupsByUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.ForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupBodies(list))
}

func (h *handlers) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := h.groups.Create(r.Context(), userIDFrom(r.Context()), req.Name, req.Description, req.Members)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "group": toGroupBody(g)})
}

func (h *handlers) groupConversations(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.ForUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupBodies(list))
}

func (h *handlers) userGroupIDs(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.ForUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ids := make([]string, 0, len(list))
	for _, g := range list {
		ids = append(ids, g.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groupIds": ids})
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), userIDFrom(r.Context()), r.FormValue("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toModel(u)})
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	files := []map[string]any{}
	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			files = append(files, map[string]any{"field": field, "name": fh.Filename, "size": fh.Size})
		}
	}
	fields := map[string]string{}
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files, "fields": fields})
}

// fail maps service errors onto statuses with an {"error": ...} body.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, common.ErrorInvalidOTP):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "User already exists")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorBody{Error: msg})
}

func toGroupBody(g *groups.Group) groupBody {
	return groupBody{ID: g.ID, Name: g.Name, Description: g.Description, OwnerID: g.OwnerID, Members: g.Members}
}

func toGroupBodies(list []*groups.Group) []groupBody {
	out := make([]groupBody, 0, len(list))
	for _, g := range list {
		out = append(out, toGroupBody(g))
	}
	return out
}

func toModel(u *users.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:       u.ID,
		Name:     u.Name,
		UserType: models.UserType(u.UserType),
		GroupID:  u.GroupID,
	}
}
