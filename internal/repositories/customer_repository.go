package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"

	"github.com/lib/pq"
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	CreateCustomer(executor SQLExecutor, customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(id int64) (*models.Customer, error)
	GetCustomerByPhoneNumber(phoneNumber string) (*models.Customer, error)
	GetCustomers(page, pageSize int, filter CustomerFilter) ([]models.Customer, int, error)
	UpdateCustomer(executor SQLExecutor, id int64, fields *Fields) (*models.Customer, error)
	DeleteCustomer(executor SQLExecutor, id int64) error
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `customer_id, uuid, full_name, email, phone_number, address, date_of_birth, gender,
	membership_type, membership_status, membership_start_date, membership_end_date,
	profile_picture_url, notes, created_at, updated_at`

func scanCustomer(row scanner) (*models.Customer, error) {
	var c models.Customer
	var dob, msd, med sql.NullTime
	var email, address, gender, membType, picURL, notes sql.NullString

	err := row.Scan(
		&c.CustomerID, &c.UUID, &c.FullName, &email, &c.PhoneNumber, &address, &dob, &gender,
		&membType, &c.MembershipStatus, &msd, &med,
		&picURL, &notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		// Returned raw so callers can inspect driver errors (pq.Error).
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if address.Valid {
		c.Address = &address.String
	}
	if dob.Valid {
		c.DateOfBirth = &dob.Time
	}
	if gender.Valid {
		c.Gender = &gender.String
	}
	if membType.Valid {
		c.MembershipType = &membType.String
	}
	if msd.Valid {
		c.MembershipStartDate = &msd.Time
	}
	if med.Valid {
		c.MembershipEndDate = &med.Time
	}
	if picURL.Valid {
		c.ProfilePictureURL = &picURL.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	return &c, nil
}

// CreateCustomer inserts a new customer via the dynamic query builder.
func (r *customerRepository) CreateCustomer(executor SQLExecutor, customer *models.Customer) (*models.Customer, error) {
	if customer.MembershipStatus == "" {
		customer.MembershipStatus = models.MembershipActive
	}

	fields := (&Fields{}).
		Set("uuid", customer.UUID).
		Set("fullName", customer.FullName).
		Set("phoneNumber", customer.PhoneNumber).
		Set("membershipStatus", customer.MembershipStatus)
	fields.SetIf(customer.Email != nil, "email", customer.Email).
		SetIf(customer.Address != nil, "address", customer.Address).
		SetIf(customer.DateOfBirth != nil, "dateOfBirth", customer.DateOfBirth).
		SetIf(customer.Gender != nil, "gender", customer.Gender).
		SetIf(customer.MembershipType != nil, "membershipType", customer.MembershipType).
		SetIf(customer.MembershipStartDate != nil, "membershipStartDate", customer.MembershipStartDate).
		SetIf(customer.MembershipEndDate != nil, "membershipEndDate", customer.MembershipEndDate).
		SetIf(customer.ProfilePictureURL != nil, "profilePictureUrl", customer.ProfilePictureURL).
		SetIf(customer.Notes != nil, "notes", customer.Notes)

	query, args, err := BuildInsertQuery("customers", fields)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+customerColumns, 1)

	created, err := scanCustomer(executor.QueryRow(query, args...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: creating customer: %v", ErrDatabaseError, err)
	}
	return created, nil
}

// GetCustomerByID retrieves a customer by their ID.
func (r *customerRepository) GetCustomerByID(id int64) (*models.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE customer_id = $1`, customerColumns)
	customer, err := scanCustomer(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

// GetCustomerByPhoneNumber retrieves a customer by their phone number.
// Phone numbers are unique; this backs the duplicate-phone check on create.
func (r *customerRepository) GetCustomerByPhoneNumber(phoneNumber string) (*models.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE phone_number = $1`, customerColumns)
	customer, err := scanCustomer(r.db.QueryRow(query, phoneNumber))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by phone number %s: %v", ErrDatabaseError, phoneNumber, err)
	}
	return customer, nil
}

// GetCustomers retrieves one page of customers with the given filters, plus the
// total matching count. The data and count queries run concurrently on the
// shared pool.
func (r *customerRepository) GetCustomers(page, pageSize int, filter CustomerFilter) ([]models.Customer, int, error) {
	conditions, args, argIdx := filter.Compose(1)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM customers c" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT c.customer_id, c.uuid, c.full_name, c.email, c.phone_number, c.address, c.date_of_birth, c.gender,
	c.membership_type, c.membership_status, c.membership_start_date, c.membership_end_date,
	c.profile_picture_url, c.notes, c.created_at, c.updated_at
	FROM customers c`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY c.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer: %v", ErrDatabaseError, err)
		}
		customers = append(customers, *customer)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting customers: %v", ErrDatabaseError, count.err)
	}

	return customers, count.total, nil
}

// UpdateCustomer applies a partial update built from the supplied fields.
func (r *customerRepository) UpdateCustomer(executor SQLExecutor, id int64, fields *Fields) (*models.Customer, error) {
	query, args, err := BuildUpdateQuery("customers", fields, "", id)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+customerColumns, 1)

	updated, err := scanCustomer(executor.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return nil, fmt.Errorf("%w: updating customer ID %d: %v", ErrDatabaseError, id, err)
	}
	return updated, nil
}

// DeleteCustomer removes a customer from the database.
func (r *customerRepository) DeleteCustomer(executor SQLExecutor, id int64) error {
	query := `DELETE FROM customers WHERE customer_id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: customer ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting customer ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting customer ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
