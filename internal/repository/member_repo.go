package repository

import (
	"database/sql"
	"fmt"

	"familytree/internal/database"
	"familytree/internal/models"
)

// MemberRepository handles database operations for family members and
// their parent links
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateMember inserts a member and its parent links in one transaction
// and returns the store-assigned id. Ids come from an auto-increment key,
// so they are monotonically increasing and never reused after deletion.
func (r *MemberRepository) CreateMember(member *models.Member) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO members (name, spouse, birth_date, phone, interest, owner_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := tx.ExecReturningID(query,
		member.Name,
		member.Spouse,
		member.BirthDate,
		member.Phone,
		member.Interest,
		member.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create member: %w", err)
	}

	for _, parentID := range member.Parents {
		_, err := tx.Exec("INSERT INTO member_parents (member_id, parent_id) VALUES (?, ?)", id, parentID)
		if err != nil {
			return 0, fmt.Errorf("failed to link parent %d: %w", parentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	member.ID = id
	return id, nil
}

// ListMembers returns all members owned by ownerID, ordered by id, with
// parent ids loaded
func (r *MemberRepository) ListMembers(ownerID int64) ([]models.Member, error) {
	query := `
		SELECT id, name, spouse, birth_date, phone, interest, owner_id, created_at
		FROM members
		WHERE owner_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	index := make(map[int64]int)
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Spouse, &m.BirthDate, &m.Phone, &m.Interest, &m.OwnerID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		index[m.ID] = len(members)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	parentQuery := `
		SELECT mp.member_id, mp.parent_id
		FROM member_parents mp
		INNER JOIN members m ON m.id = mp.member_id
		WHERE m.owner_id = ?
		ORDER BY mp.member_id, mp.parent_id
	`
	parentRows, err := r.db.Query(parentQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parent links: %w", err)
	}
	defer parentRows.Close()

	for parentRows.Next() {
		var memberID, parentID int64
		if err := parentRows.Scan(&memberID, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan parent link: %w", err)
		}
		if i, ok := index[memberID]; ok {
			members[i].Parents = append(members[i].Parents, parentID)
		}
	}
	if err := parentRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parent links: %w", err)
	}

	return members, nil
}

// GetMember retrieves one member owned by ownerID. Returns nil, nil when
// absent or owned by someone else.
func (r *MemberRepository) GetMember(id, ownerID int64) (*models.Member, error) {
	query := `
		SELECT id, name, spouse, birth_date, phone, interest, owner_id, created_at
		FROM members
		WHERE id = ? AND owner_id = ?
	`
	m := &models.Member{}
	err := r.db.QueryRow(query, id, ownerID).Scan(
		&m.ID, &m.Name, &m.Spouse, &m.BirthDate, &m.Phone, &m.Interest, &m.OwnerID, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	rows, err := r.db.Query("SELECT parent_id FROM member_parents WHERE member_id = ? ORDER BY parent_id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query parent links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var parentID int64
		if err := rows.Scan(&parentID); err != nil {
			return nil, fmt.Errorf("failed to scan parent link: %w", err)
		}
		m.Parents = append(m.Parents, parentID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read parent links: %w", err)
	}

	return m, nil
}

// DeleteMember removes a member owned by ownerID. Deleting an absent id
// is a no-op, not an error. The member's own parent links are cascaded;
// links in other members pointing at the deleted id are left dangling on
// purpose.
func (r *MemberRepository) DeleteMember(id, ownerID int64) error {
	_, err := r.db.Exec("DELETE FROM members WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
