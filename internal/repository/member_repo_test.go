package repository

import (
	"os"
	"path/filepath"
	"testing"

	"familytree/internal/database"
	"familytree/internal/models"
)

// newTestDB opens a throwaway SQLite database with the real migrations
// applied and returns it with a registered owner account.
func newTestDB(t *testing.T) (*database.DB, int64) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := NewUserRepository(db)
	owner, err := users.CreateUser("testowner", "", "not-a-real-hash")
	if err != nil {
		t.Fatalf("Failed to create owner: %v", err)
	}

	return db, owner.ID
}

func TestMemberLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	// Round trip: add, list, delete, list again
	id, err := repo.CreateMember(&models.Member{Name: "Ali", OwnerID: ownerID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("CreateMember() id = %d, want positive", id)
	}

	members, err := repo.ListMembers(ownerID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 1 || members[0].Name != "Ali" {
		t.Fatalf("ListMembers() = %+v, want one member named Ali", members)
	}
	if members[0].ParentRef() != "" {
		t.Errorf("ParentRef() = %q, want empty", members[0].ParentRef())
	}

	if err := repo.DeleteMember(id, ownerID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}
	members, err = repo.ListMembers(ownerID)
	if err != nil {
		t.Fatalf("ListMembers() after delete error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("ListMembers() after delete = %+v, want empty", members)
	}
}

func TestMemberIDsAreNeverReused(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	first, err := repo.CreateMember(&models.Member{Name: "Samijah", OwnerID: ownerID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if err := repo.DeleteMember(first, ownerID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}

	second, err := repo.CreateMember(&models.Member{Name: "Abbas", OwnerID: ownerID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if second <= first {
		t.Errorf("id %d assigned after deleting id %d, ids must keep increasing", second, first)
	}
}

func TestDeleteParentLeavesDanglingReference(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	parent, err := repo.CreateMember(&models.Member{Name: "Samijah", OwnerID: ownerID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	child, err := repo.CreateMember(&models.Member{Name: "Suwardi", OwnerID: ownerID, Parents: []int64{parent}})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	if err := repo.DeleteMember(parent, ownerID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}

	got, err := repo.GetMember(child, ownerID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if got == nil {
		t.Fatal("child record was deleted along with its parent")
	}
	if !got.HasParent(parent) {
		t.Errorf("child lost its (now dangling) parent reference %d: parents = %v", parent, got.Parents)
	}
}

func TestDeleteMemberCascadesOwnParentLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	parent, err := repo.CreateMember(&models.Member{Name: "Abbas", OwnerID: ownerID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	child, err := repo.CreateMember(&models.Member{Name: "Suwardi", OwnerID: ownerID, Parents: []int64{parent}})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	if err := repo.DeleteMember(child, ownerID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM member_parents WHERE member_id = ?", child).Scan(&count)
	if err != nil {
		t.Fatalf("counting parent links: %v", err)
	}
	if count != 0 {
		t.Errorf("deleted member still has %d parent links", count)
	}
}

func TestDeleteMemberAbsentIDIsNoOp(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	if err := repo.DeleteMember(9999, ownerID); err != nil {
		t.Errorf("DeleteMember() of absent id should be a no-op, got error %v", err)
	}
}

func TestListMembersIsOwnerScoped(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)
	users := NewUserRepository(db)

	other, err := users.CreateUser("otherowner", "", "not-a-real-hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := repo.CreateMember(&models.Member{Name: "Mine", OwnerID: ownerID}); err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	theirs, err := repo.CreateMember(&models.Member{Name: "Theirs", OwnerID: other.ID})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	members, err := repo.ListMembers(ownerID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 1 || members[0].Name != "Mine" {
		t.Errorf("ListMembers() = %+v, want only the caller's member", members)
	}

	// Deleting someone else's record must not touch it
	if err := repo.DeleteMember(theirs, ownerID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}
	got, err := repo.GetMember(theirs, other.ID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if got == nil {
		t.Error("cross-owner delete removed another owner's record")
	}
}

func TestCreateMemberStoresParentLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, ownerID := newTestDB(t)
	repo := NewMemberRepository(db)

	p1, _ := repo.CreateMember(&models.Member{Name: "Samijah", OwnerID: ownerID})
	p2, _ := repo.CreateMember(&models.Member{Name: "Abbas", OwnerID: ownerID})
	child, err := repo.CreateMember(&models.Member{Name: "Suwardi", OwnerID: ownerID, Parents: []int64{p1, p2}})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}

	got, err := repo.GetMember(child, ownerID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetMember() = nil for an existing member")
	}
	if !got.HasParent(p1) || !got.HasParent(p2) {
		t.Errorf("parents = %v, want both %d and %d", got.Parents, p1, p2)
	}
}
