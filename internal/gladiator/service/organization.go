package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/slogx"
)

var (
	ErrLastOwner = errors.New("an organization must keep at least one owner")
	ErrNotMember = errors.New("not a member of this organization")
)

const maxOrgNameLength = 120

type OrganizationService struct {
	Store store.Store
	Clock Clock
}

// Membership returns the caller's membership, or ErrNotMember.
func (s *OrganizationService) Membership(ctx context.Context, orgID, userID string) (domain.Membership, error) {
	m, err := s.Store.Memberships().GetMembership(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, ErrNotMember
		}
		return domain.Membership{}, err
	}
	return m, nil
}

func (s *OrganizationService) ListForUser(ctx context.Context, userID string) ([]domain.UserOrganization, error) {
	return s.Store.Organizations().ListUserOrganizations(ctx, userID)
}

func (s *OrganizationService) Get(ctx context.Context, orgID string) (domain.Organization, error) {
	org, err := s.Store.Organizations().GetOrganization(ctx, orgID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Organization{}, ErrNotFound
	}
	return org, err
}

func (s *OrganizationService) Create(ctx context.Context, ownerID, name string) (domain.Organization, error) {
	var org domain.Organization
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		org, err = createOrganization(ctx, tx, name, ownerID, s.Clock.Now())
		return err
	})
	return org, err
}

func (s *OrganizationService) Rename(ctx context.Context, orgID, name string) (domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxOrgNameLength {
		return domain.Organization{}, fmt.Errorf("%w: organization name must be 1-%d characters", ErrInvalidRequest, maxOrgNameLength)
	}
	if err := s.Store.Organizations().RenameOrganization(ctx, orgID, name, s.Clock.Now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, ErrNotFound
		}
		return domain.Organization{}, err
	}
	return s.Get(ctx, orgID)
}

func (s *OrganizationService) Members(ctx context.Context, orgID string) ([]domain.Member, error) {
	return s.Store.Memberships().ListMembers(ctx, orgID)
}

// ChangeRole sets the role of targetUserID. Admins cannot grant OWNER nor
// touch an owner, and the last owner cannot be demoted.
func (s *OrganizationService) ChangeRole(ctx context.Context, actor domain.Membership, targetUserID, newRole string) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	role, err := domain.ParseOrgRole(newRole)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !actor.Role.AtLeast(domain.OrgRoleAdmin) {
		return domain.Membership{}, ErrForbidden
	}
	if role == domain.OrgRoleOwner && actor.Role != domain.OrgRoleOwner {
		return domain.Membership{}, ErrForbidden
	}

	var updated domain.Membership
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Memberships().GetMembership(ctx, actor.OrganizationID, targetUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.Role == domain.OrgRoleOwner && actor.Role != domain.OrgRoleOwner {
			return ErrForbidden
		}
		if target.Role == domain.OrgRoleOwner && role != domain.OrgRoleOwner {
			if err := ensureAnotherOwner(ctx, tx, actor.OrganizationID); err != nil {
				return err
			}
		}
		if err := tx.Memberships().UpdateRole(ctx, actor.OrganizationID, targetUserID, role); err != nil {
			return err
		}
		target.Role = role
		updated = target
		return nil
	})
	if err != nil {
		return domain.Membership{}, err
	}

	log.Info("member role changed",
		slog.String("org_id", actor.OrganizationID),
		slog.String("user_id", targetUserID),
		slog.String("role", string(role)),
		slog.String("actor_id", actor.UserID),
	)
	return updated, nil
}

// RemoveMember deletes a membership. Any member may leave; removing someone
// else needs ADMIN, and only an owner may remove an owner.
func (s *OrganizationService) RemoveMember(ctx context.Context, actor domain.Membership, targetUserID string) error {
	self := actor.UserID == targetUserID
	if !self && !actor.Role.AtLeast(domain.OrgRoleAdmin) {
		return ErrForbidden
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		target, err := tx.Memberships().GetMembership(ctx, actor.OrganizationID, targetUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if target.Role == domain.OrgRoleOwner {
			if !self && actor.Role != domain.OrgRoleOwner {
				return ErrForbidden
			}
			if err := ensureAnotherOwner(ctx, tx, actor.OrganizationID); err != nil {
				return err
			}
		}
		return tx.Memberships().DeleteMembership(ctx, actor.OrganizationID, targetUserID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("member removed",
		slog.String("org_id", actor.OrganizationID),
		slog.String("user_id", targetUserID),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

func ensureAnotherOwner(ctx context.Context, tx store.Tx, orgID string) error {
	n, err := tx.Memberships().CountByRole(ctx, orgID, domain.OrgRoleOwner)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastOwner
	}
	return nil
}

// createOrganization inserts an organization with a unique slug and makes
// ownerID its OWNER. It must run inside a transaction.
func createOrganization(ctx context.Context, tx store.Tx, name, ownerID string, now time.Time) (domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxOrgNameLength {
		return domain.Organization{}, fmt.Errorf("%w: organization name must be 1-%d characters", ErrInvalidRequest, maxOrgNameLength)
	}

	base := domain.Slugify(name)
	if base == "" {
		base = "org"
	}

	org := domain.Organization{
		ID:        idx.NewAt(now).String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for attempt := 0; ; attempt++ {
		org.Slug = base
		if attempt > 0 {
			org.Slug = fmt.Sprintf("%s-%d", base, attempt+1)
		}
		if attempt >= 20 {
			org.Slug = base + "-" + strings.ToLower(org.ID[len(org.ID)-6:])
		}

		exists, err := tx.Organizations().SlugExists(ctx, org.Slug)
		if err != nil {
			return domain.Organization{}, err
		}
		if exists && attempt < 20 {
			continue
		}
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return domain.Organization{}, fmt.Errorf("create organization: %w", err)
		}
		break
	}

	err := tx.Memberships().CreateMembership(ctx, domain.Membership{
		OrganizationID: org.ID,
		UserID:         ownerID,
		Role:           domain.OrgRoleOwner,
		CreatedAt:      now,
	})
	if err != nil {
		return domain.Organization{}, fmt.Errorf("create owner membership: %w", err)
	}
	return org, nil
}
