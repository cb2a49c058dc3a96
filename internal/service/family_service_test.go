package service

import (
	"errors"
	"testing"

	"familytree/internal/validation"
)

func TestAddMemberWithParents(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, family := newTestServices(t)
	owner, err := auth.Register("karmin", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	mother, err := family.AddMember(owner.ID, "Samijah", "", "1950-01-01", "", "", "")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	father, err := family.AddMember(owner.ID, "Abbas", "Samijah", "", "", "", "")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	child, err := family.AddMember(owner.ID, "  Suwardi  ", "", "1975-06-15", "0812", "fishing", "1, 2")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if child.Name != "Suwardi" {
		t.Errorf("name = %q, want trimmed %q", child.Name, "Suwardi")
	}
	if len(child.Parents) != 2 || child.Parents[0] != mother.ID || child.Parents[1] != father.ID {
		t.Errorf("parents = %v, want [%d %d]", child.Parents, mother.ID, father.ID)
	}

	members, err := family.ListMembers(owner.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("ListMembers() returned %d members, want 3", len(members))
	}
}

func TestAddMemberRejectsMalformedParentRef(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, family := newTestServices(t)
	owner, err := auth.Register("karmin", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = family.AddMember(owner.ID, "Suwardi", "", "", "", "", "1,abu")
	var fieldErr validation.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("AddMember() error = %T (%v), want validation.FieldError", err, err)
	}
	if fieldErr.Field != "parent_ref" {
		t.Errorf("error field = %q, want %q", fieldErr.Field, "parent_ref")
	}

	// Nothing was stored for the rejected submission
	members, err := family.ListMembers(owner.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("ListMembers() returned %d members after rejected add, want 0", len(members))
	}
}

func TestAddMemberRequiresName(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, family := newTestServices(t)
	owner, err := auth.Register("karmin", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := family.AddMember(owner.ID, "   ", "", "", "", "", ""); err == nil {
		t.Error("AddMember() accepted a blank name")
	}
}

func TestMembersAreScopedToOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, family := newTestServices(t)
	alice, err := auth.Register("alice", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	bob, err := auth.Register("bob", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	member, err := family.AddMember(alice.ID, "Samijah", "", "", "", "", "")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	// Bob sees nothing and cannot read or delete Alice's member
	members, err := family.ListMembers(bob.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("ListMembers() for other owner returned %d members, want 0", len(members))
	}
	if _, err := family.GetMember(member.ID, bob.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("GetMember() cross-owner error = %v, want ErrMemberNotFound", err)
	}
	if err := family.DeleteMember(member.ID, bob.ID); err != nil {
		t.Fatalf("DeleteMember() cross-owner error = %v", err)
	}
	if _, err := family.GetMember(member.ID, alice.ID); err != nil {
		t.Errorf("member disappeared after cross-owner delete attempt: %v", err)
	}
}

func TestDeleteMemberKeepsChildReferences(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	auth, family := newTestServices(t)
	owner, err := auth.Register("karmin", "s3cret-password", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	parent, err := family.AddMember(owner.ID, "Samijah", "", "", "", "", "")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	child, err := family.AddMember(owner.ID, "Suwardi", "", "", "", "", "1")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if err := family.DeleteMember(parent.ID, owner.ID); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}

	got, err := family.GetMember(child.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetMember() error = %v", err)
	}
	if !got.HasParent(parent.ID) {
		t.Errorf("child parents = %v, dangling reference to %d must survive", got.Parents, parent.ID)
	}
}
