package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"

	"github.com/lib/pq"
)

// UserRepository defines the interface for staff user and profile database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	CreateUserProfile(executor SQLExecutor, profile *models.UserProfile) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // User, PasswordHash, error
	FindUserByID(userID int64) (*models.User, error)
	GetUsers(page, pageSize int, role *string, searchTerm *string) ([]models.User, int, error)
	UpdateUser(executor SQLExecutor, id int64, fields *Fields) error
	UpdateUserProfile(executor SQLExecutor, userID int64, fields *Fields) error
	DeleteUser(executor SQLExecutor, id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a new staff user. The caller owns transaction scope via
// the executor so the paired profile insert can share it.
func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	if user.Role == "" {
		user.Role = models.RoleStaff
	}

	fields := (&Fields{}).
		Set("username", user.Username).
		Set("passwordHash", hashedPassword).
		Set("role", user.Role).
		Set("isEnabled", true)
	fields.SetIf(user.Email != nil, "email", user.Email).
		SetIf(user.FullName != nil, "fullName", user.FullName).
		SetIf(user.ProfilePictureURL != nil, "profilePictureUrl", user.ProfilePictureURL)

	query, args, err := BuildInsertQuery("users", fields)
	if err != nil {
		return 0, err
	}
	// Only the generated key is needed here; RETURNING * keeps the builder uniform.
	query = strings.Replace(query, "RETURNING *", "RETURNING user_id", 1)

	var userID int64
	if err := executor.QueryRow(query, args...).Scan(&userID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return userID, nil
}

// CreateUserProfile inserts the personnel-detail record paired with a user.
func (r *userRepository) CreateUserProfile(executor SQLExecutor, profile *models.UserProfile) (int64, error) {
	fields := (&Fields{}).Set("userId", profile.UserID)
	fields.SetIf(profile.PhoneNumber != nil, "phoneNumber", profile.PhoneNumber).
		SetIf(profile.Address != nil, "address", profile.Address).
		SetIf(profile.Salary != nil, "salary", profile.Salary).
		SetIf(profile.ContractURL != nil, "contractUrl", profile.ContractURL).
		SetIf(profile.CvURL != nil, "cvUrl", profile.CvURL).
		SetIf(profile.WorkDays != nil, "workDays", []byte(profile.WorkDays)).
		SetIf(profile.Loans != nil, "loans", []byte(profile.Loans)).
		SetIf(profile.Incentives != nil, "incentives", []byte(profile.Incentives)).
		SetIf(profile.Debts != nil, "debts", []byte(profile.Debts))

	query, args, err := BuildInsertQuery("user_profiles", fields)
	if err != nil {
		return 0, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING profile_id", 1)

	var profileID int64
	if err := executor.QueryRow(query, args...).Scan(&profileID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: user %d already has a profile", ErrDuplicateKey, profile.UserID)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: user %d not found for profile", ErrNotFound, profile.UserID)
			}
		}
		return 0, fmt.Errorf("%w: creating user profile: %v", ErrDatabaseError, err)
	}
	return profileID, nil
}

const userSelect = `SELECT u.user_id, u.username, u.email, u.password_hash, u.full_name, u.role, u.is_enabled,
	u.profile_picture_url, u.created_at, u.updated_at,
	up.profile_id, up.phone_number, up.address, up.salary, up.contract_url, up.cv_url,
	up.work_days, up.loans, up.incentives, up.debts
	FROM users u
	LEFT JOIN user_profiles up ON up.user_id = u.user_id`

func scanUserWithProfile(row scanner) (*models.User, string, error) {
	var u models.User
	var passwordHash string
	var email, fullName, picURL sql.NullString
	var profileID sql.NullInt64
	var profPhone, profAddress, profContract, profCv sql.NullString
	var profSalary sql.NullFloat64
	var workDays, loans, incentives, debts []byte

	err := row.Scan(
		&u.UserID, &u.Username, &email, &passwordHash, &fullName, &u.Role, &u.IsEnabled,
		&picURL, &u.CreatedAt, &u.UpdatedAt,
		&profileID, &profPhone, &profAddress, &profSalary, &profContract, &profCv,
		&workDays, &loans, &incentives, &debts,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if email.Valid {
		u.Email = &email.String
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if picURL.Valid {
		u.ProfilePictureURL = &picURL.String
	}
	if profileID.Valid {
		profile := &models.UserProfile{ProfileID: profileID.Int64, UserID: u.UserID}
		if profPhone.Valid {
			profile.PhoneNumber = &profPhone.String
		}
		if profAddress.Valid {
			profile.Address = &profAddress.String
		}
		if profSalary.Valid {
			profile.Salary = &profSalary.Float64
		}
		if profContract.Valid {
			profile.ContractURL = &profContract.String
		}
		if profCv.Valid {
			profile.CvURL = &profCv.String
		}
		profile.WorkDays = workDays
		profile.Loans = loans
		profile.Incentives = incentives
		profile.Debts = debts
		u.Profile = profile
	}
	return &u, passwordHash, nil
}

// FindUserByUsername retrieves a user with profile by username.
// It returns the user model, their hashed password, and an error if any.
func (r *userRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user, hash, err := scanUserWithProfile(r.db.QueryRow(userSelect+` WHERE u.username = $1`, username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, hash, nil
}

// FindUserByID retrieves a user with profile by ID. The password hash is not
// populated on the returned model.
func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	user, _, err := scanUserWithProfile(r.db.QueryRow(userSelect+` WHERE u.user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

// GetUsers retrieves one page of staff users with optional role filter and
// name/username search, plus the total matching count. The data and count
// queries run concurrently on the shared pool.
func (r *userRepository) GetUsers(page, pageSize int, role *string, searchTerm *string) ([]models.User, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if role != nil && *role != "" {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", argCount))
		args = append(args, *role)
		argCount++
	}
	if searchTerm != nil && *searchTerm != "" {
		pattern := "%" + strings.ToLower(*searchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.username) LIKE $%d OR LOWER(COALESCE(u.full_name, '')) LIKE $%d)", argCount, argCount))
		args = append(args, pattern)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM users u" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(userSelect)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY u.username ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, _, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting users: %v", ErrDatabaseError, count.err)
	}

	return users, count.total, nil
}

// UpdateUser applies a partial update built from the supplied fields.
func (r *userRepository) UpdateUser(executor SQLExecutor, id int64, fields *Fields) error {
	query, args, err := BuildUpdateQuery("users", fields, "", id)
	if err != nil {
		return err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING user_id", 1)

	var userID int64
	if err := executor.QueryRow(query, args...).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating user ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}

// UpdateUserProfile applies a partial profile update keyed on user_id.
func (r *userRepository) UpdateUserProfile(executor SQLExecutor, userID int64, fields *Fields) error {
	query, args, err := BuildUpdateQuery("user_profiles", fields, "user_id", userID)
	if err != nil {
		return err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING profile_id", 1)

	var profileID int64
	if err := executor.QueryRow(query, args...).Scan(&profileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: updating profile for user ID %d: %v", ErrDatabaseError, userID, err)
	}
	return nil
}

// DeleteUser removes a user; the profile row follows via ON DELETE CASCADE.
func (r *userRepository) DeleteUser(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: user ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting user ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting user ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
