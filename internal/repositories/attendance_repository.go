package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fitclub_backend/internal/models"

	"github.com/lib/pq"
)

// AttendanceRepository defines the interface for customer and staff attendance
// database operations. The two record kinds live in parallel tables.
type AttendanceRepository interface {
	// Customer attendance
	CreateCustomerAttendance(executor SQLExecutor, att *models.CustomerAttendance) (*models.CustomerAttendance, error)
	GetCustomerAttendanceByID(id int64) (*models.CustomerAttendance, error)
	GetCustomerAttendance(page, pageSize int, filter AttendanceFilter) ([]models.CustomerAttendance, int, error)
	UpdateCustomerAttendance(executor SQLExecutor, id int64, fields *Fields) (*models.CustomerAttendance, error)
	DeleteCustomerAttendance(executor SQLExecutor, id int64) error

	// Staff attendance
	CreateStaffAttendance(executor SQLExecutor, att *models.StaffAttendance) (*models.StaffAttendance, error)
	GetStaffAttendanceByID(id int64) (*models.StaffAttendance, error)
	GetStaffAttendance(page, pageSize int, filter AttendanceFilter) ([]models.StaffAttendance, int, error)
	UpdateStaffAttendance(executor SQLExecutor, id int64, fields *Fields) (*models.StaffAttendance, error)
	DeleteStaffAttendance(executor SQLExecutor, id int64) error
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// --- Customer attendance ---

const customerAttendanceColumns = `attendance_id, customer_id, attendance_date, status,
	check_in_time, check_out_time, weight, notes, created_at, updated_at`

func scanCustomerAttendance(row scanner) (*models.CustomerAttendance, error) {
	var a models.CustomerAttendance
	var checkIn, checkOut sql.NullTime
	var weight sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(
		&a.AttendanceID, &a.CustomerID, &a.AttendanceDate, &a.Status,
		&checkIn, &checkOut, &weight, &notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if checkIn.Valid {
		a.CheckInTime = &checkIn.Time
	}
	if checkOut.Valid {
		a.CheckOutTime = &checkOut.Time
	}
	if weight.Valid {
		a.Weight = &weight.Float64
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	return &a, nil
}

func (r *attendanceRepository) CreateCustomerAttendance(executor SQLExecutor, att *models.CustomerAttendance) (*models.CustomerAttendance, error) {
	if att.Status == "" {
		att.Status = models.AttendancePresent
	}

	fields := (&Fields{}).
		Set("customerId", att.CustomerID).
		Set("attendanceDate", att.AttendanceDate).
		Set("status", att.Status)
	fields.SetIf(att.CheckInTime != nil, "checkInTime", att.CheckInTime).
		SetIf(att.CheckOutTime != nil, "checkOutTime", att.CheckOutTime).
		SetIf(att.Weight != nil, "weight", att.Weight).
		SetIf(att.Notes != nil, "notes", att.Notes)

	query, args, err := BuildInsertQuery("customer_attendance", fields)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+customerAttendanceColumns, 1)

	created, err := scanCustomerAttendance(executor.QueryRow(query, args...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: customer ID %d not found for attendance", ErrNotFound, att.CustomerID)
		}
		return nil, fmt.Errorf("%w: creating customer attendance: %v", ErrDatabaseError, err)
	}
	return created, nil
}

func (r *attendanceRepository) GetCustomerAttendanceByID(id int64) (*models.CustomerAttendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_attendance WHERE attendance_id = $1`, customerAttendanceColumns)
	att, err := scanCustomerAttendance(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer attendance by ID %d: %v", ErrDatabaseError, id, err)
	}
	return att, nil
}

// GetCustomerAttendance retrieves one page of customer attendance records with
// the given filters, joined to the customer's name, plus the total matching
// count. The data and count queries run concurrently on the shared pool.
func (r *attendanceRepository) GetCustomerAttendance(page, pageSize int, filter AttendanceFilter) ([]models.CustomerAttendance, int, error) {
	filter.OwnerColumn = "a.customer_id"
	conditions, args, argIdx := filter.Compose(1)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM customer_attendance a" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT a.attendance_id, a.customer_id, a.attendance_date, a.status,
	a.check_in_time, a.check_out_time, a.weight, a.notes, a.created_at, a.updated_at,
	c.full_name AS customer_name
	FROM customer_attendance a
	JOIN customers c ON a.customer_id = c.customer_id`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY a.attendance_date DESC, a.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying customer attendance: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	records := []models.CustomerAttendance{}
	for rows.Next() {
		var a models.CustomerAttendance
		var checkIn, checkOut sql.NullTime
		var weight sql.NullFloat64
		var notes, customerName sql.NullString

		if err := rows.Scan(
			&a.AttendanceID, &a.CustomerID, &a.AttendanceDate, &a.Status,
			&checkIn, &checkOut, &weight, &notes, &a.CreatedAt, &a.UpdatedAt,
			&customerName,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning customer attendance: %v", ErrDatabaseError, err)
		}

		if checkIn.Valid {
			a.CheckInTime = &checkIn.Time
		}
		if checkOut.Valid {
			a.CheckOutTime = &checkOut.Time
		}
		if weight.Valid {
			a.Weight = &weight.Float64
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		if customerName.Valid {
			a.CustomerName = &customerName.String
		}
		records = append(records, a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating customer attendance rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting customer attendance: %v", ErrDatabaseError, count.err)
	}

	return records, count.total, nil
}

func (r *attendanceRepository) UpdateCustomerAttendance(executor SQLExecutor, id int64, fields *Fields) (*models.CustomerAttendance, error) {
	query, args, err := BuildUpdateQuery("customer_attendance", fields, "", id)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+customerAttendanceColumns, 1)

	updated, err := scanCustomerAttendance(executor.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating customer attendance ID %d: %v", ErrDatabaseError, id, err)
	}
	return updated, nil
}

func (r *attendanceRepository) DeleteCustomerAttendance(executor SQLExecutor, id int64) error {
	return deleteAttendanceRow(executor, "customer_attendance", id)
}

// --- Staff attendance ---

const staffAttendanceColumns = `attendance_id, user_id, attendance_date, status,
	check_in_time, check_out_time, notes, created_at, updated_at`

func scanStaffAttendance(row scanner) (*models.StaffAttendance, error) {
	var a models.StaffAttendance
	var checkIn, checkOut sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&a.AttendanceID, &a.UserID, &a.AttendanceDate, &a.Status,
		&checkIn, &checkOut, &notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if checkIn.Valid {
		a.CheckInTime = &checkIn.Time
	}
	if checkOut.Valid {
		a.CheckOutTime = &checkOut.Time
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	return &a, nil
}

func (r *attendanceRepository) CreateStaffAttendance(executor SQLExecutor, att *models.StaffAttendance) (*models.StaffAttendance, error) {
	if att.Status == "" {
		att.Status = models.AttendancePresent
	}

	fields := (&Fields{}).
		Set("userId", att.UserID).
		Set("attendanceDate", att.AttendanceDate).
		Set("status", att.Status)
	fields.SetIf(att.CheckInTime != nil, "checkInTime", att.CheckInTime).
		SetIf(att.CheckOutTime != nil, "checkOutTime", att.CheckOutTime).
		SetIf(att.Notes != nil, "notes", att.Notes)

	query, args, err := BuildInsertQuery("staff_attendance", fields)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+staffAttendanceColumns, 1)

	created, err := scanStaffAttendance(executor.QueryRow(query, args...))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: user ID %d not found for attendance", ErrNotFound, att.UserID)
		}
		return nil, fmt.Errorf("%w: creating staff attendance: %v", ErrDatabaseError, err)
	}
	return created, nil
}

func (r *attendanceRepository) GetStaffAttendanceByID(id int64) (*models.StaffAttendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_attendance WHERE attendance_id = $1`, staffAttendanceColumns)
	att, err := scanStaffAttendance(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff attendance by ID %d: %v", ErrDatabaseError, id, err)
	}
	return att, nil
}

// GetStaffAttendance retrieves one page of staff attendance records with the
// given filters, joined to the staff member's name, plus the total matching
// count. The data and count queries run concurrently on the shared pool.
func (r *attendanceRepository) GetStaffAttendance(page, pageSize int, filter AttendanceFilter) ([]models.StaffAttendance, int, error) {
	filter.OwnerColumn = "a.user_id"
	conditions, args, argIdx := filter.Compose(1)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM staff_attendance a" + whereClause
	countCh := runCount(r.db, countQuery, args)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT a.attendance_id, a.user_id, a.attendance_date, a.status,
	a.check_in_time, a.check_out_time, a.notes, a.created_at, a.updated_at,
	u.full_name AS staff_name
	FROM staff_attendance a
	JOIN users u ON a.user_id = u.user_id`)
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(" ORDER BY a.attendance_date DESC, a.created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1))
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), pagedArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying staff attendance: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	records := []models.StaffAttendance{}
	for rows.Next() {
		var a models.StaffAttendance
		var checkIn, checkOut sql.NullTime
		var notes, staffName sql.NullString

		if err := rows.Scan(
			&a.AttendanceID, &a.UserID, &a.AttendanceDate, &a.Status,
			&checkIn, &checkOut, &notes, &a.CreatedAt, &a.UpdatedAt,
			&staffName,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning staff attendance: %v", ErrDatabaseError, err)
		}

		if checkIn.Valid {
			a.CheckInTime = &checkIn.Time
		}
		if checkOut.Valid {
			a.CheckOutTime = &checkOut.Time
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		if staffName.Valid {
			a.StaffName = &staffName.String
		}
		records = append(records, a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating staff attendance rows: %v", ErrDatabaseError, err)
	}

	count := <-countCh
	if count.err != nil {
		return nil, 0, fmt.Errorf("%w: counting staff attendance: %v", ErrDatabaseError, count.err)
	}

	return records, count.total, nil
}

func (r *attendanceRepository) UpdateStaffAttendance(executor SQLExecutor, id int64, fields *Fields) (*models.StaffAttendance, error) {
	query, args, err := BuildUpdateQuery("staff_attendance", fields, "", id)
	if err != nil {
		return nil, err
	}
	query = strings.Replace(query, "RETURNING *", "RETURNING "+staffAttendanceColumns, 1)

	updated, err := scanStaffAttendance(executor.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating staff attendance ID %d: %v", ErrDatabaseError, id, err)
	}
	return updated, nil
}

func (r *attendanceRepository) DeleteStaffAttendance(executor SQLExecutor, id int64) error {
	return deleteAttendanceRow(executor, "staff_attendance", id)
}

func deleteAttendanceRow(executor SQLExecutor, table string, id int64) error {
	result, err := executor.Exec(fmt.Sprintf(`DELETE FROM %s WHERE attendance_id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("%w: deleting %s ID %d: %v", ErrDatabaseError, table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting %s ID %d: %v", ErrDatabaseError, table, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
