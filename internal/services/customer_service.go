package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Customer ---
var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrPhoneNumberExists  = errors.New("phone number already exists")
	ErrCustomerValidation = errors.New("customer data validation error")
	ErrDateFormat         = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrCustomerInUse      = errors.New("customer cannot be deleted as they are referenced in other records")
	ErrInvalidMembership  = errors.New("invalid membership status")
)

// --- Customer DTOs ---
type CreateCustomerRequest struct {
	FullName            string  `json:"fullName" binding:"required"`
	Email               *string `json:"email"`
	PhoneNumber         string  `json:"phoneNumber" binding:"required"`
	Address             *string `json:"address"`
	DateOfBirth         *string `json:"dateOfBirth"` // Format YYYY-MM-DD
	Gender              *string `json:"gender"`
	MembershipType      *string `json:"membershipType"`
	MembershipStatus    *string `json:"membershipStatus"`
	MembershipStartDate *string `json:"membershipStartDate"`
	MembershipEndDate   *string `json:"membershipEndDate"`
	ProfilePictureURL   *string `json:"profilePictureUrl"`
	Notes               *string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FullName            *string `json:"fullName"`
	Email               *string `json:"email"`
	PhoneNumber         *string `json:"phoneNumber"`
	Address             *string `json:"address"`
	DateOfBirth         *string `json:"dateOfBirth"`
	Gender              *string `json:"gender"`
	MembershipType      *string `json:"membershipType"`
	MembershipStatus    *string `json:"membershipStatus"`
	MembershipStartDate *string `json:"membershipStartDate"`
	MembershipEndDate   *string `json:"membershipEndDate"`
	ProfilePictureURL   *string `json:"profilePictureUrl"`
	Notes               *string `json:"notes"`
}

// --- CustomerService Interface ---
type CustomerService interface {
	CreateCustomer(req CreateCustomerRequest) (*models.Customer, error)
	GetCustomerByID(customerID int64) (*models.Customer, error)
	GetCustomers(page, pageSize int, filter repositories.CustomerFilter) ([]models.Customer, int, error)
	UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error)
	DeleteCustomer(customerID int64) error
}

// --- customerService Implementation ---
type customerService struct {
	customerRepo repositories.CustomerRepository
	db           *sql.DB
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, db *sql.DB) CustomerService {
	return &customerService{
		customerRepo: repo,
		db:           db,
	}
}

var membershipStatuses = map[string]bool{
	models.MembershipActive:    true,
	models.MembershipExpired:   true,
	models.MembershipSuspended: true,
	models.MembershipCancelled: true,
}

func (s *customerService) validatePhoneNumber(phoneNumber string, customerID int64) error {
	pn := strings.TrimSpace(phoneNumber)
	if pn == "" {
		return fmt.Errorf("%w: phone number cannot be empty", ErrCustomerValidation)
	}
	existing, err := s.customerRepo.GetCustomerByPhoneNumber(pn)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check phone number uniqueness: %w", err)
	}
	if existing != nil && existing.CustomerID != customerID {
		return ErrPhoneNumberExists
	}
	return nil
}

func parseDateField(dateStr *string) (*time.Time, error) {
	if dateStr == nil || strings.TrimSpace(*dateStr) == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(*dateStr))
	if err != nil {
		return nil, ErrDateFormat
	}
	return &d, nil
}

func (s *customerService) CreateCustomer(req CreateCustomerRequest) (*models.Customer, error) {
	if utils.IsEmpty(req.FullName) {
		return nil, fmt.Errorf("%w: full name cannot be empty", ErrCustomerValidation)
	}
	if err := s.validatePhoneNumber(req.PhoneNumber, 0); err != nil {
		return nil, err
	}
	if req.Email != nil && *req.Email != "" && !utils.IsValidEmail(*req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrCustomerValidation)
	}

	dob, err := parseDateField(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDateField(req.MembershipStartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateField(req.MembershipEndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, fmt.Errorf("%w: membership end date cannot be before start date", ErrCustomerValidation)
	}

	status := models.MembershipActive
	if req.MembershipStatus != nil && *req.MembershipStatus != "" {
		if !membershipStatuses[*req.MembershipStatus] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMembership, *req.MembershipStatus)
		}
		status = *req.MembershipStatus
	}

	customer := &models.Customer{
		UUID:                uuid.NewString(),
		FullName:            req.FullName,
		Email:               req.Email,
		PhoneNumber:         strings.TrimSpace(req.PhoneNumber),
		Address:             req.Address,
		DateOfBirth:         dob,
		Gender:              req.Gender,
		MembershipType:      req.MembershipType,
		MembershipStatus:    status,
		MembershipStartDate: startDate,
		MembershipEndDate:   endDate,
		ProfilePictureURL:   req.ProfilePictureURL,
		Notes:               req.Notes,
	}

	created, err := s.customerRepo.CreateCustomer(s.db, customer)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// The uniqueness pre-check races with concurrent creates; the DB
			// constraint is authoritative.
			if strings.Contains(err.Error(), "customers_phone_number_key") {
				return nil, ErrPhoneNumberExists
			}
			return nil, fmt.Errorf("failed to create customer due to duplicate data: %w", err)
		}
		return nil, fmt.Errorf("failed to create customer in repository: %w", err)
	}
	return created, nil
}

func (s *customerService) GetCustomerByID(customerID int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetCustomerByID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer by ID: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetCustomers(page, pageSize int, filter repositories.CustomerFilter) ([]models.Customer, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	customers, totalItems, err := s.customerRepo.GetCustomers(page, pageSize, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, totalItems, nil
}

func (s *customerService) UpdateCustomer(customerID int64, req UpdateCustomerRequest) (*models.Customer, error) {
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}

	fields := &repositories.Fields{}

	if req.FullName != nil {
		if utils.IsEmpty(*req.FullName) {
			return nil, fmt.Errorf("%w: full name cannot be empty if provided", ErrCustomerValidation)
		}
		fields.Set("fullName", *req.FullName)
	}
	if req.PhoneNumber != nil {
		if err := s.validatePhoneNumber(*req.PhoneNumber, customerID); err != nil {
			return nil, err
		}
		fields.Set("phoneNumber", strings.TrimSpace(*req.PhoneNumber))
	}
	if req.Email != nil {
		if *req.Email != "" && !utils.IsValidEmail(*req.Email) {
			return nil, fmt.Errorf("%w: email format is invalid", ErrCustomerValidation)
		}
		fields.Set("email", utils.NewNullString(*req.Email))
	}
	if req.Address != nil {
		fields.Set("address", req.Address)
	}
	if req.DateOfBirth != nil {
		dob, err := parseDateField(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		fields.Set("dateOfBirth", dob)
	}
	if req.Gender != nil {
		fields.Set("gender", req.Gender)
	}
	if req.MembershipType != nil {
		fields.Set("membershipType", req.MembershipType)
	}
	if req.MembershipStatus != nil {
		if !membershipStatuses[*req.MembershipStatus] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMembership, *req.MembershipStatus)
		}
		fields.Set("membershipStatus", *req.MembershipStatus)
	}
	if req.MembershipStartDate != nil {
		d, err := parseDateField(req.MembershipStartDate)
		if err != nil {
			return nil, err
		}
		fields.Set("membershipStartDate", d)
	}
	if req.MembershipEndDate != nil {
		d, err := parseDateField(req.MembershipEndDate)
		if err != nil {
			return nil, err
		}
		fields.Set("membershipEndDate", d)
	}
	if req.ProfilePictureURL != nil {
		fields.Set("profilePictureUrl", req.ProfilePictureURL)
	}
	if req.Notes != nil {
		fields.Set("notes", req.Notes)
	}

	if fields.Len() == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrCustomerValidation)
	}

	updated, err := s.customerRepo.UpdateCustomer(s.db, customerID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if strings.Contains(err.Error(), "customers_phone_number_key") {
				return nil, ErrPhoneNumberExists
			}
			return nil, fmt.Errorf("failed to update customer due to duplicate data: %w", err)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to update customer in repository: %w", err)
	}
	return updated, nil
}

func (s *customerService) DeleteCustomer(customerID int64) error {
	if _, err := s.GetCustomerByID(customerID); err != nil {
		return err
	}

	err := s.customerRepo.DeleteCustomer(s.db, customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if strings.Contains(err.Error(), "referenced by other records") {
			return ErrCustomerInUse
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
