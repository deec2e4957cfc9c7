package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/pkg/utils"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(executor repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	args := m.Called(executor, user, hashedPassword)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CreateUserProfile(executor repositories.SQLExecutor, profile *models.UserProfile) (int64, error) {
	args := m.Called(executor, profile)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(username string) (*models.User, string, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) FindUserByID(userID int64) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers(page, pageSize int, role *string, searchTerm *string) ([]models.User, int, error) {
	args := m.Called(page, pageSize, role, searchTerm)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) UpdateUser(executor repositories.SQLExecutor, id int64, fields *repositories.Fields) error {
	args := m.Called(executor, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUserProfile(executor repositories.SQLExecutor, userID int64, fields *repositories.Fields) error {
	args := m.Called(executor, userID, fields)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(executor repositories.SQLExecutor, session *models.Session) (int64, error) {
	args := m.Called(executor, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) FindSessionByToken(token string) (*models.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteSession(executor repositories.SQLExecutor, token string) error {
	args := m.Called(executor, token)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpiredSessions(executor repositories.SQLExecutor) (int64, error) {
	args := m.Called(executor)
	return args.Get(0).(int64), args.Error(1)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestLoginUser(t *testing.T) {
	activeUser := &models.User{
		UserID:    3,
		Username:  "manager1",
		Role:      models.RoleManager,
		IsEnabled: true,
	}

	t.Run("success issues a token backed by a session row", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)
		service := NewAuthService(mockUsers, mockSessions, nil)

		mockUsers.On("FindUserByUsername", "manager1").
			Return(activeUser, hashFor(t, "correct-horse"), nil)
		mockSessions.On("DeleteExpiredSessions", mock.Anything).Return(int64(0), nil)
		mockSessions.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *models.Session) bool {
			return s.UserID == 3 && s.Token != "" && s.ExpiresAt.After(time.Now())
		})).Return(int64(1), nil)

		resp, err := service.LoginUser(LoginRequest{Username: "manager1", Password: "correct-horse"})

		assert.NoError(t, err)
		assert.Equal(t, activeUser, resp.User)
		assert.NotEmpty(t, resp.AccessToken)

		// The session row stores the token's jti, so the JWT and the session
		// can be matched up during request authentication.
		claims, err := utils.ValidateToken(resp.AccessToken)
		assert.NoError(t, err)
		createdSession := mockSessions.Calls[1].Arguments.Get(1).(*models.Session)
		assert.Equal(t, claims.ID, createdSession.Token)
		assert.Equal(t, int64(3), claims.UserID)
		assert.Equal(t, models.RoleManager, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockSessions := new(MockSessionRepository)
		service := NewAuthService(mockUsers, mockSessions, nil)

		mockUsers.On("FindUserByUsername", "manager1").
			Return(activeUser, hashFor(t, "correct-horse"), nil)

		_, err := service.LoginUser(LoginRequest{Username: "manager1", Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockSessions.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})

	t.Run("unknown user maps to the same error as a bad password", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		service := NewAuthService(mockUsers, new(MockSessionRepository), nil)

		mockUsers.On("FindUserByUsername", "ghost").Return(nil, "", repositories.ErrNotFound)

		_, err := service.LoginUser(LoginRequest{Username: "ghost", Password: "whatever"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		service := NewAuthService(mockUsers, new(MockSessionRepository), nil)

		disabled := *activeUser
		disabled.IsEnabled = false
		mockUsers.On("FindUserByUsername", "manager1").
			Return(&disabled, hashFor(t, "correct-horse"), nil)

		_, err := service.LoginUser(LoginRequest{Username: "manager1", Password: "correct-horse"})

		assert.ErrorIs(t, err, ErrUserDisabled)
	})
}

func TestLogoutUser(t *testing.T) {
	t.Run("deletes the session row", func(t *testing.T) {
		mockSessions := new(MockSessionRepository)
		service := NewAuthService(new(MockUserRepository), mockSessions, nil)

		mockSessions.On("DeleteSession", mock.Anything, "token-id-1").Return(nil)

		assert.NoError(t, service.LogoutUser("token-id-1"))
		mockSessions.AssertExpectations(t)
	})

	t.Run("already logged out", func(t *testing.T) {
		mockSessions := new(MockSessionRepository)
		service := NewAuthService(new(MockUserRepository), mockSessions, nil)

		mockSessions.On("DeleteSession", mock.Anything, "token-id-1").Return(repositories.ErrNotFound)

		assert.ErrorIs(t, service.LogoutUser("token-id-1"), ErrSessionNotFound)
	})
}

func TestRegisterUserValidation(t *testing.T) {
	// Validation failures must reject the request before any database work.
	service := NewAuthService(new(MockUserRepository), new(MockSessionRepository), nil)

	tests := []struct {
		name     string
		req      RegisterUserRequest
		expected error
	}{
		{
			name:     "empty username",
			req:      RegisterUserRequest{Username: " ", Password: "long-enough"},
			expected: ErrUserValidation,
		},
		{
			name:     "short password",
			req:      RegisterUserRequest{Username: "newstaff", Password: "short"},
			expected: ErrUserValidation,
		},
		{
			name: "invalid email",
			req: func() RegisterUserRequest {
				email := "not-an-email"
				return RegisterUserRequest{Username: "newstaff", Password: "long-enough", Email: &email}
			}(),
			expected: ErrUserValidation,
		},
		{
			name:     "invalid role",
			req:      RegisterUserRequest{Username: "newstaff", Password: "long-enough", Role: "JANITOR"},
			expected: ErrInvalidRole,
		},
		{
			name: "negative salary",
			req: func() RegisterUserRequest {
				salary := -100.0
				return RegisterUserRequest{Username: "newstaff", Password: "long-enough", Salary: &salary}
			}(),
			expected: ErrUserValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RegisterUser(tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestGetUsers(t *testing.T) {
	t.Run("role filter is validated", func(t *testing.T) {
		service := NewAuthService(new(MockUserRepository), new(MockSessionRepository), nil)

		role := "JANITOR"
		_, _, err := service.GetUsers(1, 10, &role, nil)

		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("passes filters through", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		service := NewAuthService(mockUsers, new(MockSessionRepository), nil)

		role := models.RoleTrainer
		search := "aman"
		mockUsers.On("GetUsers", 1, 10, &role, &search).
			Return([]models.User{{UserID: 2, Username: "amanbek"}}, 1, nil)

		users, total, err := service.GetUsers(0, 0, &role, &search)

		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, 1, total)
	})
}
