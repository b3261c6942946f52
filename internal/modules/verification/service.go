package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

type Service struct {
	verifications VerificationRepository
	users         UserRepository
	notifs        Notifier
	committer     BatchCommitter
}

func NewService(
	verifications VerificationRepository,
	users UserRepository,
	notifs Notifier,
	committer BatchCommitter,
) *Service {
	return &Service{
		verifications: verifications,
		users:         users,
		notifs:        notifs,
		committer:     committer,
	}
}

// Submit opens a pending verification request for the user.
func (s *Service) Submit(ctx context.Context, userID int64, documentType, documentURL string) (*domain.IdentityVerificationRequest, error) {
	if strings.TrimSpace(documentType) == "" || strings.TrimSpace(documentURL) == "" {
		return nil, ErrValidation
	}

	req := &domain.IdentityVerificationRequest{
		UserID:       userID,
		DocumentType: documentType,
		DocumentURL:  documentURL,
		Status:       domain.VerificationPending,
	}
	if err := s.verifications.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Decide records an admin's decision. Promotion fires only when the status
// actually moves from a non-approved value into approved: the decision write
// is guarded on the status the admin saw, so unrelated concurrent edits or a
// second approval cannot re-fire the promotion.
func (s *Service) Decide(ctx context.Context, requestID, adminID int64, approve bool, notes string) (*domain.IdentityVerificationRequest, error) {
	req, err := s.verifications.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	prior := req.Status
	if prior == domain.VerificationApproved {
		return nil, ErrAlreadyDecided
	}

	newStatus := domain.VerificationRejected
	if approve {
		newStatus = domain.VerificationApproved
	}

	now := time.Now()
	b := repository.NewBatch()
	s.verifications.StageDecision(b, req.ID, prior, newStatus, adminID, notes, now)

	if approve {
		s.users.StagePromoteToHost(b, req.UserID, now)
		if err := s.notifs.StageKycApproved(b, req.UserID, req.ID); err != nil {
			return nil, err
		}
	}

	if err := s.committer.Commit(ctx, b); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrConflict
		}
		return nil, err
	}

	req.Status = newStatus
	req.ReviewedBy = &adminID
	req.Notes = notes
	req.DecisionAt = &now
	return req, nil
}

func (s *Service) GetForUser(ctx context.Context, userID int64) (*domain.IdentityVerificationRequest, error) {
	req, err := s.verifications.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]domain.IdentityVerificationRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.verifications.ListByStatus(ctx, domain.VerificationPending, limit, offset)
}
