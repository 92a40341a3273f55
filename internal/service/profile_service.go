package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/assessio/assessment-service/internal/models"
	"github.com/assessio/assessment-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUnknownRole     = errors.New("caller role is not recognised")
	ErrProfileNotFound = errors.New("no profile for this caller")
)

// Profile is the role-dispatched projection: exactly one of the three
// entity pointers is set, matching Role.
type Profile struct {
	Role         models.Role
	Candidate    *models.User
	SpecialUser  *models.SpecialUser
	Organization *models.Organization
}

type ProfileService interface {
	Resolve(ctx context.Context, caller models.Identity) (*Profile, error)
	ResolveOrganization(ctx context.Context, caller models.Identity) (*models.Organization, error)
}

type profileService struct {
	userRepo        repository.UserRepository
	specialUserRepo repository.SpecialUserRepository
	orgRepo         repository.OrganizationRepository
}

func NewProfileService(
	userRepo repository.UserRepository,
	specialUserRepo repository.SpecialUserRepository,
	orgRepo repository.OrganizationRepository,
) ProfileService {
	return &profileService{
		userRepo:        userRepo,
		specialUserRepo: specialUserRepo,
		orgRepo:         orgRepo,
	}
}

// Resolve dispatches on the caller's role to the matching entity table. If
// the token carried no usable account id but has an email claim, the lookup
// falls back to email within the same table — one attempt, no cross-table
// search.
func (s *profileService) Resolve(ctx context.Context, caller models.Identity) (*Profile, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	switch caller.Role {
	case models.RoleCandidate:
		user, err := s.resolveCandidate(ctx, caller)
		if err != nil {
			return nil, err
		}
		return &Profile{Role: models.RoleCandidate, Candidate: user}, nil

	case models.RoleSpecialUser:
		user, err := s.resolveSpecialUser(ctx, caller)
		if err != nil {
			return nil, err
		}
		return &Profile{Role: models.RoleSpecialUser, SpecialUser: user}, nil

	case models.RoleOrganization:
		org, err := s.ResolveOrganization(ctx, caller)
		if err != nil {
			return nil, err
		}
		return &Profile{Role: models.RoleOrganization, Organization: org}, nil

	default:
		return nil, ErrUnknownRole
	}
}

func (s *profileService) resolveCandidate(ctx context.Context, caller models.Identity) (*models.User, error) {
	if caller.AccountID != 0 {
		user, err := s.userRepo.FindByID(ctx, caller.AccountID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load candidate %d: %w", caller.AccountID, err)
		}
	}
	if caller.Email != "" {
		user, err := s.userRepo.FindByEmail(ctx, caller.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load candidate by email: %w", err)
		}
	}
	return nil, ErrProfileNotFound
}

func (s *profileService) resolveSpecialUser(ctx context.Context, caller models.Identity) (*models.SpecialUser, error) {
	if caller.AccountID != 0 {
		user, err := s.specialUserRepo.FindByID(ctx, caller.AccountID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load special user %d: %w", caller.AccountID, err)
		}
	}
	if caller.Email != "" {
		user, err := s.specialUserRepo.FindByEmail(ctx, caller.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load special user by email: %w", err)
		}
	}
	return nil, ErrProfileNotFound
}

// ResolveOrganization also backs the organization endpoints, which scope
// every operation to the caller's own organization.
func (s *profileService) ResolveOrganization(ctx context.Context, caller models.Identity) (*models.Organization, error) {
	if caller.Role != models.RoleOrganization {
		return nil, ErrWrongRole
	}

	if caller.AccountID != 0 {
		org, err := s.orgRepo.FindByID(ctx, caller.AccountID)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load organization %d: %w", caller.AccountID, err)
		}
	}
	if caller.Email != "" {
		org, err := s.orgRepo.FindByEmail(ctx, caller.Email)
		if err == nil {
			return org, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load organization by email: %w", err)
		}
	}
	return nil, ErrProfileNotFound
}
