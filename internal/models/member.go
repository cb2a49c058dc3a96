package models

import (
	"strconv"
	"strings"
	"time"
)

// Member represents one person in a family tree. Parents holds the ids of
// zero or more other members; a parent id may be dangling if the referenced
// member was deleted.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Spouse    string    `json:"spouse"`
	BirthDate string    `json:"birth_date"`
	Phone     string    `json:"phone"`
	Interest  string    `json:"interest"`
	Parents   []int64   `json:"parents"`
	OwnerID   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ParentRef renders the parent ids in the comma-separated form shown in
// the member table and accepted by the add form, e.g. "1,2".
func (m Member) ParentRef() string {
	if len(m.Parents) == 0 {
		return ""
	}
	tokens := make([]string, len(m.Parents))
	for i, id := range m.Parents {
		tokens[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(tokens, ",")
}

// HasParent reports whether id is one of the member's parents
func (m Member) HasParent(id int64) bool {
	for _, p := range m.Parents {
		if p == id {
			return true
		}
	}
	return false
}

// Label returns the display label for tree rendering: the member's name,
// or "ID: <id>" when the name is empty.
func (m Member) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return "ID: " + strconv.FormatInt(m.ID, 10)
}
