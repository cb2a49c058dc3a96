package handlers

import (
	"html/template"
	"log"
	"net/http"

	"familytree/internal/security"
	"familytree/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService  *service.AuthService
	emailService *service.EmailService
	templates    *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		emailService: emailService,
		templates:    templates,
	}
}

// Home redirects to the member list for logged-in users and to the
// login page for everyone else
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	// Already logged in
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
	}

	data := LoginViewData{Title: "Login - Family Tree"}
	if r.URL.Query().Get("registered") == "1" {
		data.Success = "Account created, you can log in now"
	}
	if r.URL.Query().Get("reset") == "1" {
		data.Success = "Password updated, log in with your new password"
	}

	h.render(w, "login.tmpl", data)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	session, _, err := h.authService.Login(username, password)
	if err != nil {
		h.render(w, "login.tmpl", LoginViewData{
			Title:    "Login - Family Tree",
			Error:    "Invalid username or password",
			Username: username,
		})
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/members", http.StatusSeeOther)
			return
		}
	}

	h.render(w, "register.tmpl", RegisterViewData{Title: "Register - Family Tree"})
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	email := r.FormValue("email")

	_, err := h.authService.Register(username, password, email)
	if err != nil {
		h.render(w, "register.tmpl", RegisterViewData{
			Title:    "Register - Family Tree",
			Error:    err.Error(),
			Username: username,
			Email:    email,
		})
		return
	}

	// Auto-login after registration
	session, _, err := h.authService.Login(username, password)
	if err != nil {
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/members", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowForgotPassword renders the forgot password page
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, "forgot_password.tmpl", ForgotPasswordViewData{Title: "Forgot Password - Family Tree"})
}

// ForgotPassword handles the forgot password form submission. The
// response is the same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, username); err != nil {
		log.Printf("Error requesting password reset: %v", err)
	}

	h.render(w, "forgot_password.tmpl", ForgotPasswordViewData{
		Title:   "Forgot Password - Family Tree",
		Success: "If that account has an email on file, a reset link is on its way",
	})
}

// ShowResetPassword renders the reset password page for a token link
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	valid, err := h.authService.ValidatePasswordResetToken(token)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error validating reset token", err)
		return
	}
	if !valid {
		h.render(w, "reset_password.tmpl", ResetPasswordViewData{
			Title: "Reset Password - Family Tree",
			Error: "This reset link is invalid or has expired",
		})
		return
	}

	h.render(w, "reset_password.tmpl", ResetPasswordViewData{
		Title: "Reset Password - Family Tree",
		Token: token,
	})
}

// ResetPassword handles the reset password form submission
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	newPassword := r.FormValue("password")

	if err := h.authService.ResetPasswordWithToken(token, newPassword); err != nil {
		h.render(w, "reset_password.tmpl", ResetPasswordViewData{
			Title: "Reset Password - Family Tree",
			Token: token,
			Error: err.Error(),
		})
		return
	}

	http.Redirect(w, r, "/login?reset=1", http.StatusSeeOther)
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
