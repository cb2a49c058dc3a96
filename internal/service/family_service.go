package service

import (
	"errors"
	"fmt"
	"strings"

	"familytree/internal/models"
	"familytree/internal/repository"
	"familytree/internal/validation"
)

var ErrMemberNotFound = errors.New("member not found")

// FamilyService handles family member business logic
type FamilyService struct {
	memberRepo *repository.MemberRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(memberRepo *repository.MemberRepository) *FamilyService {
	return &FamilyService{memberRepo: memberRepo}
}

// ListMembers retrieves all members owned by the given user, ordered by id
func (s *FamilyService) ListMembers(ownerID int64) ([]models.Member, error) {
	members, err := s.memberRepo.ListMembers(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMember validates the submitted fields and creates a member owned by
// ownerID. The parentRef string is a comma-separated list of member ids;
// any token that is not a whole number makes the whole submission fail
// with a validation.FieldError.
func (s *FamilyService) AddMember(ownerID int64, name, spouse, birthDate, phone, interest, parentRef string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateMemberName(name); err != nil {
		return nil, err
	}

	parents, err := validation.ParseParentRefs(parentRef)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:      name,
		Spouse:    strings.TrimSpace(spouse),
		BirthDate: strings.TrimSpace(birthDate),
		Phone:     strings.TrimSpace(phone),
		Interest:  strings.TrimSpace(interest),
		Parents:   parents,
		OwnerID:   ownerID,
	}

	if _, err := s.memberRepo.CreateMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return member, nil
}

// GetMember retrieves one member owned by ownerID
func (s *FamilyService) GetMember(id, ownerID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMember(id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// DeleteMember removes a member owned by ownerID. Deleting an id that
// does not exist, or that belongs to another user, is a no-op.
func (s *FamilyService) DeleteMember(id, ownerID int64) error {
	if err := s.memberRepo.DeleteMember(id, ownerID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
