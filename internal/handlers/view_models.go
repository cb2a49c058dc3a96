package handlers

import (
	"html/template"

	"familytree/internal/models"
)

type LoginViewData struct {
	Title    string
	User     *models.User
	Error    string
	Username string
	Success  string
}

type RegisterViewData struct {
	Title    string
	User     *models.User
	Error    string
	Username string
	Email    string
}

type ForgotPasswordViewData struct {
	Title   string
	User    *models.User
	Success string
	Error   string
}

type ResetPasswordViewData struct {
	Title string
	User  *models.User
	Token string
	Error string
}

type MembersViewData struct {
	Title     string
	User      *models.User
	Members   []models.Member
	CSRFToken string
	Error     string
}

type TreeViewData struct {
	Title     string
	User      *models.User
	Members   []models.Member
	Root      int64
	RootLabel string
	SVG       template.HTML
	Error     string
}
