package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"familytree/internal/models"
	"familytree/internal/security"
	"familytree/internal/service"
	"familytree/internal/tree"
	"familytree/internal/validation"
)

// APIHandler exposes the JSON API. Authentication uses Bearer tokens
// issued by the login endpoint instead of session cookies.
type APIHandler struct {
	authService   *service.AuthService
	familyService *service.FamilyService
	tokenService  *security.TokenService
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(authService *service.AuthService, familyService *service.FamilyService, tokenService *security.TokenService) *APIHandler {
	return &APIHandler{
		authService:   authService,
		familyService: familyService,
		tokenService:  tokenService,
	}
}

type apiLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type apiMemberRequest struct {
	Name      string `json:"name"`
	Spouse    string `json:"spouse"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Interest  string `json:"interest"`
	ParentRef string `json:"parent_ref"`
}

// Login exchanges credentials for a bearer token
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, user, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithJSONError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokenService.Generate(user.ID)
	if err != nil {
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListMembers returns all members owned by the authenticated user
func (h *APIHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if members == nil {
		members = []models.Member{}
	}

	respondWithJSON(w, http.StatusOK, members)
}

// CreateMember adds a member from a JSON body
func (h *APIHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req apiMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	member, err := h.familyService.AddMember(user.ID, req.Name, req.Spouse, req.BirthDate, req.Phone, req.Interest, req.ParentRef)
	if err != nil {
		var fieldErr validation.FieldError
		if errors.As(err, &fieldErr) {
			respondWithJSONError(w, http.StatusUnprocessableEntity, fieldErr.Error())
			return
		}
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, member)
}

// DeleteMember removes a member owned by the authenticated user.
// Deleting an absent id succeeds, matching the web form behavior.
func (h *APIHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.familyService.DeleteMember(id, user.ID); err != nil {
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Tree returns the parent/child graph as JSON, optionally filtered to
// the direct children of the root query parameter
func (h *APIHandler) Tree(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithJSONError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	root, ok := parseRoot(r)
	if !ok {
		respondWithJSONError(w, http.StatusBadRequest, "invalid root id")
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, tree.Build(members, root))
}
