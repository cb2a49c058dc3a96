package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"familytree/internal/security"
	"familytree/internal/service"
	"familytree/internal/validation"
)

// MemberHandler handles family member HTTP requests
type MemberHandler struct {
	familyService *service.FamilyService
	middleware    *Middleware
	templates     *template.Template
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(familyService *service.FamilyService, middleware *Middleware, templates *template.Template) *MemberHandler {
	return &MemberHandler{
		familyService: familyService,
		middleware:    middleware,
		templates:     templates,
	}
}

// ListMembers renders the member list with the add-member form
func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error listing members", err)
		return
	}

	h.render(w, MembersViewData{
		Title:     "Family Members - Family Tree",
		User:      user,
		Members:   members,
		CSRFToken: h.getCSRFToken(r),
	})
}

// CreateMember handles the add-member form submission
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	_, err := h.familyService.AddMember(
		user.ID,
		r.FormValue("name"),
		r.FormValue("spouse"),
		r.FormValue("birth_date"),
		r.FormValue("phone"),
		r.FormValue("interest"),
		r.FormValue("parent_ref"),
	)
	if err != nil {
		var fieldErr validation.FieldError
		if !errors.As(err, &fieldErr) {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error adding member", err)
			return
		}

		// Re-render the list with the validation message
		members, listErr := h.familyService.ListMembers(user.ID)
		if listErr != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error listing members", listErr)
			return
		}
		h.render(w, MembersViewData{
			Title:     "Family Members - Family Tree",
			User:      user,
			Members:   members,
			CSRFToken: h.getCSRFToken(r),
			Error:     fieldErr.Message,
		})
		return
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// DeleteMember handles a delete-member form submission
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid member id", http.StatusBadRequest)
		return
	}

	if err := h.familyService.DeleteMember(id, user.ID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error deleting member", err)
		return
	}

	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// getCSRFToken is a helper to get the CSRF token from the session
func (h *MemberHandler) getCSRFToken(r *http.Request) string {
	cookie, err := r.Cookie(security.SessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := h.middleware.GetCSRFToken(cookie.Value)
	return token
}

func (h *MemberHandler) render(w http.ResponseWriter, data MembersViewData) {
	if err := h.templates.ExecuteTemplate(w, "members.tmpl", data); err != nil {
		log.Printf("Error rendering members template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
