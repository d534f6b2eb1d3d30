package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/clubhouse/api/internal/middleware"
	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/forgo/clubhouse/api/internal/service"
)

// ClubService is the club directory and lifecycle surface the handler needs
type ClubService interface {
	ListClubs(ctx context.Context) ([]*model.ClubListing, error)
	GetClub(ctx context.Context, clubID string) (*model.ClubDetail, error)
	CreateClub(ctx context.Context, req *model.CreateClubRequest) (*service.ClubResult, error)
	DeleteClub(ctx context.Context, clubID string) (*service.ClubResult, error)
}

// MembershipService changes club membership from both sides
type MembershipService interface {
	Subscribe(ctx context.Context, userID, clubID string) (*service.MembershipResult, error)
	Unsubscribe(ctx context.Context, userID, clubID string) (*service.MembershipResult, error)
}

// ClubHandler handles club HTTP requests
type ClubHandler struct {
	clubs       ClubService
	memberships MembershipService
}

// NewClubHandler creates a new club handler
func NewClubHandler(clubs ClubService, memberships MembershipService) *ClubHandler {
	return &ClubHandler{clubs: clubs, memberships: memberships}
}

// RegisterRoutes mounts the club routes under /v1/clubs
func (h *ClubHandler) RegisterRoutes(r chi.Router, validator middleware.TokenValidator) {
	auth := middleware.Auth(validator)

	r.Route("/v1/clubs", func(r chi.Router) {
		r.With(middleware.OptionalAuth(validator)).Get("/", h.List)
		r.With(auth).Get("/{idClub}", h.Get)
		r.With(auth, middleware.RequireRole(model.UserRoleModerator)).Post("/", h.Create)
		r.With(auth, middleware.RequireRole(model.UserRoleAdmin)).Delete("/{idClub}", h.Delete)
		r.With(auth).Put("/", h.Subscribe)
		r.With(auth).Put("/unsubscribe", h.Unsubscribe)
	})
}

// List handles GET /v1/clubs - every club, newest first
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.clubs.ListClubs(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	if clubs == nil {
		clubs = []*model.ClubListing{}
	}

	WriteData(w, http.StatusOK, clubs, "OK")
}

// Get handles GET /v1/clubs/{idClub} - club with admin and members expanded
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "idClub")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	club, err := h.clubs.GetClub(r.Context(), clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, club, "OK")
}

// Create handles POST /v1/clubs
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClubRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.clubs.CreateClub(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result.Club, result.Message)
}

// Delete handles DELETE /v1/clubs/{idClub}
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "idClub")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	result, err := h.clubs.DeleteClub(r.Context(), clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, result.Message)
}

// Subscribe handles PUT /v1/clubs
func (h *ClubHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMembership(w, r)
	if !ok {
		return
	}

	result, err := h.memberships.Subscribe(r.Context(), req.IDUser, req.IDClub)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, result.Message)
}

// Unsubscribe handles PUT /v1/clubs/unsubscribe
func (h *ClubHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeMembership(w, r)
	if !ok {
		return
	}

	result, err := h.memberships.Unsubscribe(r.Context(), req.IDUser, req.IDClub)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteMessage(w, http.StatusOK, result.Message)
}

func decodeMembership(w http.ResponseWriter, r *http.Request) (*model.MembershipRequest, bool) {
	var req model.MembershipRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return nil, false
	}

	var fields []model.FieldError
	if strings.TrimSpace(req.IDUser) == "" {
		fields = append(fields, model.FieldError{Field: "idUser", Message: "is required"})
	}
	if strings.TrimSpace(req.IDClub) == "" {
		fields = append(fields, model.FieldError{Field: "idClub", Message: "is required"})
	}
	if len(fields) > 0 {
		WriteError(w, model.NewValidationError(fields))
		return nil, false
	}
	return &req, true
}
