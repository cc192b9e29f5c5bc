package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/authbridge/domain"
)

// --- Mock Implementations ---

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, email, password string) (*domain.Principal, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockSessionClient struct {
	mock.Mock
}

func (m *MockSessionClient) Login(ctx context.Context) (*domain.ServiceSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceSession), args.Error(1)
}

// --- Tests ---

func newLoginFixture() (*MockVerifier, *MockUserRepository, *MockSessionClient, *LoginService) {
	verifier := new(MockVerifier)
	users := new(MockUserRepository)
	sessions := new(MockSessionClient)
	svc := NewLoginService(verifier, users, sessions, newTestTokenService())
	return verifier, users, sessions, svc
}

func adminUser() *domain.User {
	return &domain.User{
		ID:       "doc-1",
		UID:      "U1",
		Email:    "a@x.com",
		WorkerID: "W42",
		FullName: "Ada Example",
		IsAdmin:  true,
	}
}

func TestLoginService_Login_Success(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(adminUser(), nil)
	sessions.On("Login", mock.Anything).Return(&domain.ServiceSession{SessionID: "sess-1"}, nil)

	result, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "U1", result.UID)
	assert.Equal(t, "a@x.com", result.Email)
	assert.Equal(t, "W42", result.WorkerID)
	assert.Equal(t, "Ada Example", result.FullName)
	assert.True(t, result.IsAdmin)
	assert.Equal(t, "sess-1", result.SessionID)
	require.NotNil(t, result.Token)
	assert.Equal(t, "U1", result.Token.UID)

	verifier.AssertExpectations(t)
	users.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestLoginService_Login_BadCredentialsStopsPipeline(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "wrong").
		Return(nil, domain.ErrInvalidCredentials)

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	users.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	sessions.AssertNotCalled(t, "Login", mock.Anything)
}

func TestLoginService_Login_RecordNotFoundStopsPipeline(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrUserNotFound)

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	sessions.AssertNotCalled(t, "Login", mock.Anything)
}

func TestLoginService_Login_UIDMismatchStopsPipeline(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	mismatched := adminUser()
	mismatched.UID = "U2"
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(mismatched, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, domain.ErrIdentityMismatch)

	sessions.AssertNotCalled(t, "Login", mock.Anything)
}

func TestLoginService_Login_NotAdminStopsPipeline(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	regular := adminUser()
	regular.IsAdmin = false
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(regular, nil)

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	sessions.AssertNotCalled(t, "Login", mock.Anything)
}

func TestLoginService_Login_ServiceLayerFailure(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(adminUser(), nil)
	sessions.On("Login", mock.Anything).Return(nil, domain.ErrServiceLayer)

	_, err := svc.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, domain.ErrServiceLayer)
}

func TestLoginService_Login_RepeatedLoginsIndependent(t *testing.T) {
	verifier, users, sessions, svc := newLoginFixture()

	verifier.On("Verify", mock.Anything, "a@x.com", "p1").
		Return(&domain.Principal{UID: "U1", Email: "a@x.com"}, nil)
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(adminUser(), nil)
	sessions.On("Login", mock.Anything).Return(&domain.ServiceSession{SessionID: "sess-1"}, nil)

	first, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token.Value, second.Token.Value)
	assert.Equal(t, first.UID, second.UID)
	assert.Equal(t, first.IsAdmin, second.IsAdmin)
}
