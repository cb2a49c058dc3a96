package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"familytree/internal/service"
	"familytree/internal/tree"
)

// TreeHandler renders the family graph as a page, an SVG image and a
// downloadable DOT file
type TreeHandler struct {
	familyService *service.FamilyService
	templates     *template.Template
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(familyService *service.FamilyService, templates *template.Template) *TreeHandler {
	return &TreeHandler{
		familyService: familyService,
		templates:     templates,
	}
}

// parseRoot reads the optional root query parameter. A missing or empty
// value means the whole graph; anything non-numeric is a bad request.
func parseRoot(r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("root")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// ShowTree renders the tree page with a root selector and the graph
// inlined as SVG
func (h *TreeHandler) ShowTree(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	root, ok := parseRoot(r)
	if !ok {
		http.Error(w, "Invalid root id", http.StatusBadRequest)
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error listing members", err)
		return
	}

	graph := tree.Build(members, root)

	data := TreeViewData{
		Title:   "Family Tree - Family Tree",
		User:    user,
		Members: members,
		SVG:     template.HTML(tree.RenderSVG(graph)),
	}
	if root != nil {
		data.Root = *root
		for _, m := range members {
			if m.ID == *root {
				data.RootLabel = m.Label()
			}
		}
		if data.RootLabel == "" {
			data.RootLabel = "ID: " + strconv.FormatInt(*root, 10)
		}
	}

	if err := h.templates.ExecuteTemplate(w, "tree.tmpl", data); err != nil {
		log.Printf("Error rendering tree template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// TreeSVG serves the graph as a standalone SVG image
func (h *TreeHandler) TreeSVG(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	root, ok := parseRoot(r)
	if !ok {
		http.Error(w, "Invalid root id", http.StatusBadRequest)
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error listing members", err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write(tree.RenderSVG(tree.Build(members, root))); err != nil {
		log.Printf("Error writing SVG response: %v", err)
	}
}

// TreeDOT serves the graph in Graphviz DOT format as a download
func (h *TreeHandler) TreeDOT(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	root, ok := parseRoot(r)
	if !ok {
		http.Error(w, "Invalid root id", http.StatusBadRequest)
		return
	}

	members, err := h.familyService.ListMembers(user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Error listing members", err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Header().Set("Content-Disposition", `attachment; filename="family-tree.dot"`)
	if _, err := w.Write([]byte(tree.RenderDOT(tree.Build(members, root)))); err != nil {
		log.Printf("Error writing DOT response: %v", err)
	}
}
