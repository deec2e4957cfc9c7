package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserValidation     = errors.New("user data validation error")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserDisabled       = errors.New("user account is disabled")
)

// --- Auth DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserRequest struct {
	Username          string          `json:"username" binding:"required"`
	Email             *string         `json:"email"`
	Password          string          `json:"password" binding:"required,min=8"`
	FullName          *string         `json:"fullName"`
	Role              string          `json:"role"`
	ProfilePictureURL *string         `json:"profilePictureUrl"`
	PhoneNumber       *string         `json:"phoneNumber"`
	Address           *string         `json:"address"`
	Salary            *float64        `json:"salary"`
	ContractURL       *string         `json:"contractUrl"`
	CvURL             *string         `json:"cvUrl"`
	WorkDays          json.RawMessage `json:"workDays"`
	Loans             json.RawMessage `json:"loans"`
	Incentives        json.RawMessage `json:"incentives"`
	Debts             json.RawMessage `json:"debts"`
}

type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(req RegisterUserRequest) (*models.User, error)
	LoginUser(req LoginRequest) (*AuthResponse, error)
	LogoutUser(tokenID string) error
	GetUserProfile(userID int64) (*models.User, error)
	GetUsers(page, pageSize int, role *string, searchTerm *string) ([]models.User, int, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	db          *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, sr repositories.SessionRepository, db *sql.DB) AuthService {
	return &authService{
		userRepo:    ur,
		sessionRepo: sr,
		db:          db,
	}
}

var validRoles = map[string]bool{
	models.RoleAdmin:    true,
	models.RoleManager:  true,
	models.RoleStaff:    true,
	models.RoleTrainer:  true,
	models.RoleCustomer: true,
}

// RegisterUser creates a user together with their personnel profile. The two
// inserts run inside a single transaction on one checked-out connection; any
// failure rolls both back.
func (s *authService) RegisterUser(req RegisterUserRequest) (*models.User, error) {
	if utils.IsEmpty(req.Username) {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrUserValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrUserValidation)
	}
	if req.Email != nil && *req.Email != "" && !utils.IsValidEmail(*req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrUserValidation)
	}

	role := models.RoleStaff
	if req.Role != "" {
		normalized := strings.ToUpper(req.Role)
		if !validRoles[normalized] {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidRole, req.Role)
		}
		role = normalized
	}
	if req.Salary != nil && *req.Salary < 0 {
		return nil, fmt.Errorf("%w: salary cannot be negative", ErrUserValidation)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:          req.Username,
		Email:             req.Email,
		FullName:          req.FullName,
		Role:              role,
		ProfilePictureURL: req.ProfilePictureURL,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin registration transaction: %w", err)
	}
	defer tx.Rollback()

	userID, err := s.userRepo.CreateUser(tx, user, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if strings.Contains(err.Error(), "users_username_key") {
				return nil, ErrUsernameExists
			}
			if strings.Contains(err.Error(), "users_email_key") {
				return nil, ErrEmailExists
			}
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, "username or email already taken")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	profile := &models.UserProfile{
		UserID:      userID,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Salary:      req.Salary,
		ContractURL: req.ContractURL,
		CvURL:       req.CvURL,
		WorkDays:    req.WorkDays,
		Loans:       req.Loans,
		Incentives:  req.Incentives,
		Debts:       req.Debts,
	}
	if _, err := s.userRepo.CreateUserProfile(tx, profile); err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration transaction: %w", err)
	}

	registered, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		user.UserID = userID
		return user, fmt.Errorf("user registered but failed to retrieve full details: %w", err)
	}
	return registered, nil
}

// LoginUser verifies credentials, persists a session for the issued token and
// returns the token alongside the user.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, storedHash, err := s.userRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsEnabled {
		return nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenString, tokenID, expiresAt, err := utils.GenerateAccessToken(user.UserID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	// Opportunistic cleanup; stale rows only waste space.
	if _, err := s.sessionRepo.DeleteExpiredSessions(s.db); err != nil {
		utils.LogError(err, "LoginUser: failed to prune expired sessions")
	}

	session := &models.Session{Token: tokenID, UserID: user.UserID, ExpiresAt: expiresAt}
	if _, err := s.sessionRepo.CreateSession(s.db, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: tokenString,
	}, nil
}

// LogoutUser invalidates the session for the given token ID.
func (s *authService) LogoutUser(tokenID string) error {
	err := s.sessionRepo.DeleteSession(s.db, tokenID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user, nil
}

// GetUsers retrieves a paginated staff user list with optional role filter and search.
func (s *authService) GetUsers(page, pageSize int, role *string, searchTerm *string) ([]models.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if role != nil && *role != "" && !validRoles[strings.ToUpper(*role)] {
		return nil, 0, fmt.Errorf("%w: '%s'", ErrInvalidRole, *role)
	}

	users, totalItems, err := s.userRepo.GetUsers(page, pageSize, role, searchTerm)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users: %w", err)
	}
	return users, totalItems, nil
}
