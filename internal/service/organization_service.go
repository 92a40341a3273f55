package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/assessio/assessment-service/internal/repository"
	"github.com/assessio/assessment-service/pkg/cache"
	"github.com/assessio/assessment-service/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assessio/assessment-service/internal/models"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrNoActiveToken        = errors.New("no active token for this organization")
	ErrInvalidToken         = errors.New("token is not valid")
)

// OrgStats is the per-tenant read aggregation behind the stats endpoint.
type OrgStats struct {
	UserCount       int64
	TestCount       int64
	TestResultCount int64
}

type OrganizationService interface {
	GetOrganization(ctx context.Context, sapID string) (*models.Organization, error)
	GenerateToken(ctx context.Context, orgSapID string) (string, error)
	RegenerateToken(ctx context.Context, orgSapID string) (string, error)
	DeactivateToken(ctx context.Context, orgSapID string) error
	ValidateToken(ctx context.Context, token string) (string, error)
	GetStats(ctx context.Context, orgSapID string) (*OrgStats, error)
}

type organizationService struct {
	orgRepo    repository.OrganizationRepository
	userRepo   repository.UserRepository
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
	tokens     cache.TokenCache
	metrics    *metrics.Metrics
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	testRepo repository.TestRepository,
	resultRepo repository.ResultRepository,
	tokens cache.TokenCache,
	m *metrics.Metrics,
) OrganizationService {
	return &organizationService{
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		testRepo:   testRepo,
		resultRepo: resultRepo,
		tokens:     tokens,
		metrics:    m,
	}
}

func (s *organizationService) GetOrganization(ctx context.Context, sapID string) (*models.Organization, error) {
	org, err := s.orgRepo.FindBySapID(ctx, sapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization %s: %w", sapID, err)
	}
	return org, nil
}

// GenerateToken issues a token if none is active; an already-active token is
// returned as-is, so repeated calls are idempotent.
func (s *organizationService) GenerateToken(ctx context.Context, orgSapID string) (string, error) {
	org, err := s.GetOrganization(ctx, orgSapID)
	if err != nil {
		s.countToken("generate", "error")
		return "", err
	}

	if org.TokenActive && org.AccessToken != "" {
		s.countToken("generate", "existing")
		return org.AccessToken, nil
	}

	token := newTokenValue()
	if err := s.orgRepo.SetToken(ctx, orgSapID, token, time.Now()); err != nil {
		s.countToken("generate", "error")
		return "", fmt.Errorf("store token: %w", err)
	}
	s.warmCache(ctx, token, orgSapID)

	s.countToken("generate", "success")
	return token, nil
}

// RegenerateToken replaces the active token. The old cache entry goes first
// and the database row is updated before the new value is cached, so a fault
// can never leave the old token validating while the caller holds the new
// one.
func (s *organizationService) RegenerateToken(ctx context.Context, orgSapID string) (string, error) {
	org, err := s.GetOrganization(ctx, orgSapID)
	if err != nil {
		s.countToken("regenerate", "error")
		return "", err
	}

	if org.AccessToken != "" && s.tokens != nil {
		if err := s.tokens.Delete(ctx, org.AccessToken); err != nil {
			log.Printf("[OrgToken] failed to evict old token for %s: %v", orgSapID, err)
		}
	}

	token := newTokenValue()
	if err := s.orgRepo.SetToken(ctx, orgSapID, token, time.Now()); err != nil {
		s.countToken("regenerate", "error")
		return "", fmt.Errorf("store token: %w", err)
	}
	s.warmCache(ctx, token, orgSapID)

	s.countToken("regenerate", "success")
	return token, nil
}

// DeactivateToken marks the token unusable for new registrations without
// deleting it, keeping registration history attributable.
func (s *organizationService) DeactivateToken(ctx context.Context, orgSapID string) error {
	org, err := s.GetOrganization(ctx, orgSapID)
	if err != nil {
		s.countToken("deactivate", "error")
		return err
	}

	if !org.TokenActive || org.AccessToken == "" {
		s.countToken("deactivate", "no_token")
		return ErrNoActiveToken
	}

	if err := s.orgRepo.DeactivateToken(ctx, orgSapID); err != nil {
		s.countToken("deactivate", "error")
		return fmt.Errorf("deactivate token: %w", err)
	}
	if s.tokens != nil {
		if err := s.tokens.Delete(ctx, org.AccessToken); err != nil {
			log.Printf("[OrgToken] failed to evict deactivated token for %s: %v", orgSapID, err)
		}
	}

	s.countToken("deactivate", "success")
	return nil
}

// ValidateToken resolves a bearer token to the owning organization's SAP id.
// Cache first, database as the source of truth on a miss.
func (s *organizationService) ValidateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	if s.tokens != nil {
		if sapID, err := s.tokens.Get(ctx, token); err == nil && sapID != "" {
			return sapID, nil
		} else if err != nil {
			log.Printf("[OrgToken] token cache lookup failed: %v", err)
		}
	}

	org, err := s.orgRepo.FindByActiveToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("validate token: %w", err)
	}

	s.warmCache(ctx, token, org.SapID)
	return org.SapID, nil
}

// GetStats is a pure read aggregation scoped to the caller's own identifier.
func (s *organizationService) GetStats(ctx context.Context, orgSapID string) (*OrgStats, error) {
	users, err := s.userRepo.CountByOrganization(ctx, orgSapID)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	tests, err := s.testRepo.CountByOrganization(ctx, orgSapID)
	if err != nil {
		return nil, fmt.Errorf("count tests: %w", err)
	}
	results, err := s.resultRepo.CountByOrganization(ctx, orgSapID)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	return &OrgStats{
		UserCount:       users,
		TestCount:       tests,
		TestResultCount: results,
	}, nil
}

func (s *organizationService) warmCache(ctx context.Context, token, orgSapID string) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.Put(ctx, token, orgSapID); err != nil {
		log.Printf("[OrgToken] failed to cache token for %s: %v", orgSapID, err)
	}
}

func (s *organizationService) countToken(op, outcome string) {
	if s.metrics != nil {
		s.metrics.TokenOperationsTotal.WithLabelValues(op, outcome).Inc()
	}
}

// newTokenValue produces an opaque bearer token. The value only needs to be
// unguessable and unique; its format is not part of any contract.
func newTokenValue() string {
	return "org-" + uuid.NewString()
}
