package service_test

import (
	"context"
	"time"

	"collab-deck-backend/internal/domain"
	"collab-deck-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}
func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}
func (m *MockProjectRepo) ListByMember(ctx context.Context, identities []string) ([]domain.Project, error) {
	args := m.Called(ctx, identities)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProjectRepo) AddCollaborator(ctx context.Context, projectID, entry string, aliases []string) (bool, error) {
	args := m.Called(ctx, projectID, entry, aliases)
	return args.Bool(0), args.Error(1)
}

// MockTaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.Task), args.Error(1)
}
func (m *MockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) ListForMember(ctx context.Context, identities, projectIDs []string) ([]domain.Task, error) {
	args := m.Called(ctx, identities, projectIDs)
	return args.Get(0).([]domain.Task), args.Error(1)
}
func (m *MockTaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.DueReminder, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.DueReminder), args.Error(1)
}
func (m *MockTaskRepo) MarkReminded(ctx context.Context, taskIDs []string, at time.Time) error {
	args := m.Called(ctx, taskIDs, at)
	return args.Error(0)
}

// MockPreferenceRepo
type MockPreferenceRepo struct {
	mock.Mock
}

func (m *MockPreferenceRepo) Upsert(ctx context.Context, pref *domain.ProjectPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}
func (m *MockPreferenceRepo) ListForUser(ctx context.Context, userID string, projectIDs []string) ([]domain.ProjectPreference, error) {
	args := m.Called(ctx, userID, projectIDs)
	return args.Get(0).([]domain.ProjectPreference), args.Error(1)
}

// MockInviteRepo
type MockInviteRepo struct {
	mock.Mock
}

func (m *MockInviteRepo) Create(ctx context.Context, invite *domain.Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}
func (m *MockInviteRepo) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invite), args.Error(1)
}
func (m *MockInviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invite), args.Error(1)
}
func (m *MockInviteRepo) ListByInviter(ctx context.Context, inviter string) ([]domain.Invite, error) {
	args := m.Called(ctx, inviter)
	return args.Get(0).([]domain.Invite), args.Error(1)
}
func (m *MockInviteRepo) MarkAccepted(ctx context.Context, invite *domain.Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}
func (m *MockInviteRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) CreateMany(ctx context.Context, notes []*domain.Notification) error {
	args := m.Called(ctx, notes)
	return args.Error(0)
}
func (m *MockNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) ListByRecipient(ctx context.Context, recipients []string) ([]domain.Notification, error) {
	args := m.Called(ctx, recipients)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) SetRead(ctx context.Context, id string, read bool) (*domain.Notification, error) {
	args := m.Called(ctx, id, read)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}
func (m *MockNotificationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg service.EmailMessage) service.DeliveryResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(service.DeliveryResult)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipient string, payload service.NotificationPayload) *domain.Notification {
	args := m.Called(ctx, recipient, payload)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Notification)
}
func (m *MockNotifier) NotifyMany(ctx context.Context, recipients []string, payload service.NotificationPayload) []domain.Notification {
	args := m.Called(ctx, recipients, payload)
	return args.Get(0).([]domain.Notification)
}

// MockEmailProvider
type MockEmailProvider struct {
	mock.Mock
	name string
}

func (m *MockEmailProvider) Name() string { return m.name }
func (m *MockEmailProvider) Deliver(ctx context.Context, from service.EmailAddress, msg service.EmailMessage) (any, error) {
	args := m.Called(ctx, from, msg)
	return args.Get(0), args.Error(1)
}
