package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stayhaven/internal/domain"
	"stayhaven/internal/repository"
)

type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, req *domain.IdentityVerificationRequest) error {
	args := m.Called(ctx, req)
	if req != nil {
		req.ID = 55 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockVerificationRepository) GetByID(ctx context.Context, id int64) (*domain.IdentityVerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityVerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) GetLatestByUser(ctx context.Context, userID int64) (*domain.IdentityVerificationRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IdentityVerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.IdentityVerificationRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]domain.IdentityVerificationRequest), args.Error(1)
}

func (m *MockVerificationRepository) StageDecision(b *repository.Batch, id int64, from, to domain.VerificationStatus, reviewedBy int64, notes string, decidedAt time.Time) {
	m.Called(b, id, from, to, reviewedBy, notes, decidedAt)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) StagePromoteToHost(b *repository.Batch, userID int64, approvedAt time.Time) {
	m.Called(b, userID, approvedAt)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) StageKycApproved(b *repository.Batch, userID, verificationID int64) error {
	args := m.Called(b, userID, verificationID)
	return args.Error(0)
}

type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Commit(ctx context.Context, b *repository.Batch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func newTestService() (*Service, *MockVerificationRepository, *MockUserRepository, *MockNotifier, *MockCommitter) {
	verifications := new(MockVerificationRepository)
	users := new(MockUserRepository)
	notifs := new(MockNotifier)
	committer := new(MockCommitter)
	svc := NewService(verifications, users, notifs, committer)
	return svc, verifications, users, notifs, committer
}

func pendingVerification() *domain.IdentityVerificationRequest {
	return &domain.IdentityVerificationRequest{
		ID:           55,
		UserID:       100,
		DocumentType: "passport",
		DocumentURL:  "https://cdn.example.com/doc.jpg",
		Status:       domain.VerificationPending,
	}
}

func TestService_Decide_ApprovePromotes(t *testing.T) {
	svc, verifications, users, notifs, committer := newTestService()

	verifications.On("GetByID", mock.Anything, int64(55)).Return(pendingVerification(), nil)
	verifications.On("StageDecision", mock.Anything, int64(55),
		domain.VerificationPending, domain.VerificationApproved,
		int64(1), "looks good", mock.Anything).Return()
	users.On("StagePromoteToHost", mock.Anything, int64(100), mock.Anything).Return()
	notifs.On("StageKycApproved", mock.Anything, int64(100), int64(55)).Return(nil)
	committer.On("Commit", mock.Anything, mock.Anything).Return(nil)

	req, err := svc.Decide(context.Background(), 55, 1, true, "looks good")

	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, req.Status)
	assert.NotNil(t, req.DecisionAt)
	assert.Equal(t, int64(1), *req.ReviewedBy)
	users.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestService_Decide_RejectDoesNotPromote(t *testing.T) {
	svc, verifications, users, notifs, committer := newTestService()

	verifications.On("GetByID", mock.Anything, int64(55)).Return(pendingVerification(), nil)
	verifications.On("StageDecision", mock.Anything, int64(55),
		domain.VerificationPending, domain.VerificationRejected,
		int64(1), "document unreadable", mock.Anything).Return()
	committer.On("Commit", mock.Anything, mock.Anything).Return(nil)

	req, err := svc.Decide(context.Background(), 55, 1, false, "document unreadable")

	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, req.Status)
	users.AssertNotCalled(t, "StagePromoteToHost", mock.Anything, mock.Anything, mock.Anything)
	notifs.AssertNotCalled(t, "StageKycApproved", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Decide_AlreadyApproved(t *testing.T) {
	svc, verifications, _, _, _ := newTestService()

	req := pendingVerification()
	req.Status = domain.VerificationApproved
	verifications.On("GetByID", mock.Anything, int64(55)).Return(req, nil)

	_, err := svc.Decide(context.Background(), 55, 1, true, "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestService_Decide_RejectedThenApproved(t *testing.T) {
	svc, verifications, users, notifs, committer := newTestService()

	req := pendingVerification()
	req.Status = domain.VerificationRejected
	verifications.On("GetByID", mock.Anything, int64(55)).Return(req, nil)
	verifications.On("StageDecision", mock.Anything, int64(55),
		domain.VerificationRejected, domain.VerificationApproved,
		int64(1), "", mock.Anything).Return()
	users.On("StagePromoteToHost", mock.Anything, int64(100), mock.Anything).Return()
	notifs.On("StageKycApproved", mock.Anything, int64(100), int64(55)).Return(nil)
	committer.On("Commit", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Decide(context.Background(), 55, 1, true, "")

	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationApproved, got.Status)
	users.AssertExpectations(t)
}

func TestService_Decide_ConcurrentDecision(t *testing.T) {
	svc, verifications, users, notifs, committer := newTestService()

	verifications.On("GetByID", mock.Anything, int64(55)).Return(pendingVerification(), nil)
	verifications.On("StageDecision", mock.Anything, int64(55),
		domain.VerificationPending, domain.VerificationApproved,
		int64(1), "", mock.Anything).Return()
	users.On("StagePromoteToHost", mock.Anything, int64(100), mock.Anything).Return()
	notifs.On("StageKycApproved", mock.Anything, int64(100), int64(55)).Return(nil)
	committer.On("Commit", mock.Anything, mock.Anything).Return(repository.ErrNoRowsAffected)

	_, err := svc.Decide(context.Background(), 55, 1, true, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Submit_Success(t *testing.T) {
	svc, verifications, _, _, _ := newTestService()

	verifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	req, err := svc.Submit(context.Background(), 100, "passport", "https://cdn.example.com/doc.jpg")

	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, req.Status)
	assert.Equal(t, int64(100), req.UserID)
}

func TestService_Submit_MissingDocument(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Submit(context.Background(), 100, "passport", "  ")
	assert.ErrorIs(t, err, ErrValidation)
}
