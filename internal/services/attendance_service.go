package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
)

// --- Custom Service Errors for Attendance ---
var (
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrAttendanceValidation = errors.New("attendance data validation error")
	ErrInvalidAttendance    = errors.New("invalid attendance status")
)

// --- Attendance DTOs ---
type CreateCustomerAttendanceRequest struct {
	// The owning customer comes from the route path, never from the body.
	CustomerID     int64    `json:"-"`
	AttendanceDate *string  `json:"attendanceDate"` // YYYY-MM-DD; defaults to today
	Status         *string  `json:"status"`
	CheckInTime    *string  `json:"checkInTime"` // RFC3339
	CheckOutTime   *string  `json:"checkOutTime"`
	Weight         *float64 `json:"weight"`
	Notes          *string  `json:"notes"`
}

type CreateStaffAttendanceRequest struct {
	UserID         int64   `json:"userId" binding:"required"`
	AttendanceDate *string `json:"attendanceDate"`
	Status         *string `json:"status"`
	CheckInTime    *string `json:"checkInTime"`
	CheckOutTime   *string `json:"checkOutTime"`
	Notes          *string `json:"notes"`
}

type UpdateAttendanceRequest struct {
	AttendanceDate *string  `json:"attendanceDate"`
	Status         *string  `json:"status"`
	CheckInTime    *string  `json:"checkInTime"`
	CheckOutTime   *string  `json:"checkOutTime"`
	Weight         *float64 `json:"weight"`
	Notes          *string  `json:"notes"`
}

// --- AttendanceService Interface ---
type AttendanceService interface {
	// Customer attendance
	CreateCustomerAttendance(req CreateCustomerAttendanceRequest) (*models.CustomerAttendance, error)
	GetCustomerAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.CustomerAttendance, int, error)
	UpdateCustomerAttendance(attendanceID int64, req UpdateAttendanceRequest) (*models.CustomerAttendance, error)
	DeleteCustomerAttendance(attendanceID int64) error

	// Staff attendance
	CreateStaffAttendance(req CreateStaffAttendanceRequest) (*models.StaffAttendance, error)
	GetStaffAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.StaffAttendance, int, error)
	UpdateStaffAttendance(attendanceID int64, req UpdateAttendanceRequest) (*models.StaffAttendance, error)
	DeleteStaffAttendance(attendanceID int64) error
}

// --- attendanceService Implementation ---
type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	customerRepo   repositories.CustomerRepository
	userRepo       repositories.UserRepository
	db             *sql.DB
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(ar repositories.AttendanceRepository, cr repositories.CustomerRepository, ur repositories.UserRepository, db *sql.DB) AttendanceService {
	return &attendanceService{
		attendanceRepo: ar,
		customerRepo:   cr,
		userRepo:       ur,
		db:             db,
	}
}

var attendanceStatuses = map[string]bool{
	models.AttendancePresent: true,
	models.AttendanceAbsent:  true,
	models.AttendanceLate:    true,
	models.AttendanceExcused: true,
}

func parseAttendanceDate(dateStr *string) (time.Time, error) {
	if dateStr == nil || *dateStr == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return time.Time{}, ErrDateFormat
	}
	return d, nil
}

func parseTimestamp(tsStr *string) (*time.Time, error) {
	if tsStr == nil || *tsStr == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *tsStr)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamps must be RFC3339", ErrAttendanceValidation)
	}
	return &t, nil
}

func validateAttendanceStatus(status *string) (string, error) {
	if status == nil || *status == "" {
		return models.AttendancePresent, nil
	}
	if !attendanceStatuses[*status] {
		return "", fmt.Errorf("%w: %s", ErrInvalidAttendance, *status)
	}
	return *status, nil
}

// --- Customer attendance ---

func (s *attendanceService) CreateCustomerAttendance(req CreateCustomerAttendanceRequest) (*models.CustomerAttendance, error) {
	if _, err := s.customerRepo.GetCustomerByID(req.CustomerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to validate customer for attendance: %w", err)
	}

	status, err := validateAttendanceStatus(req.Status)
	if err != nil {
		return nil, err
	}
	date, err := parseAttendanceDate(req.AttendanceDate)
	if err != nil {
		return nil, err
	}
	checkIn, err := parseTimestamp(req.CheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseTimestamp(req.CheckOutTime)
	if err != nil {
		return nil, err
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return nil, fmt.Errorf("%w: check-out cannot be before check-in", ErrAttendanceValidation)
	}
	if req.Weight != nil && *req.Weight <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrAttendanceValidation)
	}

	att := &models.CustomerAttendance{
		CustomerID:     req.CustomerID,
		AttendanceDate: date,
		Status:         status,
		CheckInTime:    checkIn,
		CheckOutTime:   checkOut,
		Weight:         req.Weight,
		Notes:          req.Notes,
	}

	created, err := s.attendanceRepo.CreateCustomerAttendance(s.db, att)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to create customer attendance: %w", err)
	}
	return created, nil
}

func (s *attendanceService) GetCustomerAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.CustomerAttendance, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	records, totalItems, err := s.attendanceRepo.GetCustomerAttendance(page, pageSize, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customer attendance: %w", err)
	}
	return records, totalItems, nil
}

func buildAttendanceUpdateFields(req UpdateAttendanceRequest, includeWeight bool) (*repositories.Fields, error) {
	fields := &repositories.Fields{}

	if req.AttendanceDate != nil {
		date, err := parseAttendanceDate(req.AttendanceDate)
		if err != nil {
			return nil, err
		}
		fields.Set("attendanceDate", date)
	}
	if req.Status != nil {
		status, err := validateAttendanceStatus(req.Status)
		if err != nil {
			return nil, err
		}
		fields.Set("status", status)
	}
	if req.CheckInTime != nil {
		t, err := parseTimestamp(req.CheckInTime)
		if err != nil {
			return nil, err
		}
		fields.Set("checkInTime", t)
	}
	if req.CheckOutTime != nil {
		t, err := parseTimestamp(req.CheckOutTime)
		if err != nil {
			return nil, err
		}
		fields.Set("checkOutTime", t)
	}
	if includeWeight && req.Weight != nil {
		if *req.Weight <= 0 {
			return nil, fmt.Errorf("%w: weight must be positive", ErrAttendanceValidation)
		}
		fields.Set("weight", *req.Weight)
	}
	if req.Notes != nil {
		fields.Set("notes", req.Notes)
	}

	if fields.Len() == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrAttendanceValidation)
	}
	return fields, nil
}

func (s *attendanceService) UpdateCustomerAttendance(attendanceID int64, req UpdateAttendanceRequest) (*models.CustomerAttendance, error) {
	fields, err := buildAttendanceUpdateFields(req, true)
	if err != nil {
		return nil, err
	}

	updated, err := s.attendanceRepo.UpdateCustomerAttendance(s.db, attendanceID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to update customer attendance: %w", err)
	}
	return updated, nil
}

func (s *attendanceService) DeleteCustomerAttendance(attendanceID int64) error {
	err := s.attendanceRepo.DeleteCustomerAttendance(s.db, attendanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete customer attendance: %w", err)
	}
	return nil
}

// --- Staff attendance ---

func (s *attendanceService) CreateStaffAttendance(req CreateStaffAttendanceRequest) (*models.StaffAttendance, error) {
	if _, err := s.userRepo.FindUserByID(req.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to validate user for attendance: %w", err)
	}

	status, err := validateAttendanceStatus(req.Status)
	if err != nil {
		return nil, err
	}
	date, err := parseAttendanceDate(req.AttendanceDate)
	if err != nil {
		return nil, err
	}
	checkIn, err := parseTimestamp(req.CheckInTime)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseTimestamp(req.CheckOutTime)
	if err != nil {
		return nil, err
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return nil, fmt.Errorf("%w: check-out cannot be before check-in", ErrAttendanceValidation)
	}

	att := &models.StaffAttendance{
		UserID:         req.UserID,
		AttendanceDate: date,
		Status:         status,
		CheckInTime:    checkIn,
		CheckOutTime:   checkOut,
		Notes:          req.Notes,
	}

	created, err := s.attendanceRepo.CreateStaffAttendance(s.db, att)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create staff attendance: %w", err)
	}
	return created, nil
}

func (s *attendanceService) GetStaffAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.StaffAttendance, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	records, totalItems, err := s.attendanceRepo.GetStaffAttendance(page, pageSize, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get staff attendance: %w", err)
	}
	return records, totalItems, nil
}

func (s *attendanceService) UpdateStaffAttendance(attendanceID int64, req UpdateAttendanceRequest) (*models.StaffAttendance, error) {
	fields, err := buildAttendanceUpdateFields(req, false)
	if err != nil {
		return nil, err
	}

	updated, err := s.attendanceRepo.UpdateStaffAttendance(s.db, attendanceID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to update staff attendance: %w", err)
	}
	return updated, nil
}

func (s *attendanceService) DeleteStaffAttendance(attendanceID int64) error {
	err := s.attendanceRepo.DeleteStaffAttendance(s.db, attendanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete staff attendance: %w", err)
	}
	return nil
}
