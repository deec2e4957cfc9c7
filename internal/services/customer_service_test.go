package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
)

// MockCustomerRepository is a mock implementation of CustomerRepository.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(executor repositories.SQLExecutor, customer *models.Customer) (*models.Customer, error) {
	args := m.Called(executor, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomerByID(id int64) (*models.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomerByPhoneNumber(phoneNumber string) (*models.Customer, error) {
	args := m.Called(phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetCustomers(page, pageSize int, filter repositories.CustomerFilter) ([]models.Customer, int, error) {
	args := m.Called(page, pageSize, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Customer), args.Int(1), args.Error(2)
}

func (m *MockCustomerRepository) UpdateCustomer(executor repositories.SQLExecutor, id int64, fields *repositories.Fields) (*models.Customer, error) {
	args := m.Called(executor, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) DeleteCustomer(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

func TestCreateCustomer(t *testing.T) {
	validReq := CreateCustomerRequest{
		FullName:    "Aigerim Bekova",
		PhoneNumber: "+77010000001",
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").Return(nil, repositories.ErrNotFound)
		mockRepo.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(c *models.Customer) bool {
			return c.FullName == "Aigerim Bekova" &&
				c.PhoneNumber == "+77010000001" &&
				c.MembershipStatus == models.MembershipActive &&
				c.UUID != ""
		})).Return(&models.Customer{CustomerID: 1, FullName: "Aigerim Bekova"}, nil)

		customer, err := service.CreateCustomer(validReq)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), customer.CustomerID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate phone number detected by pre-check", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").
			Return(&models.Customer{CustomerID: 9, PhoneNumber: "+77010000001"}, nil)

		_, err := service.CreateCustomer(validReq)

		assert.ErrorIs(t, err, ErrPhoneNumberExists)
		mockRepo.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("duplicate phone number detected by the unique constraint", func(t *testing.T) {
		// The pre-check races with concurrent creates; the DB constraint is
		// authoritative and must map to the same service error.
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").Return(nil, repositories.ErrNotFound)
		mockRepo.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: constraint customers_phone_number_key", repositories.ErrDuplicateKey))

		_, err := service.CreateCustomer(validReq)

		assert.ErrorIs(t, err, ErrPhoneNumberExists)
	})

	t.Run("empty full name", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		_, err := service.CreateCustomer(CreateCustomerRequest{FullName: "  ", PhoneNumber: "+77010000001"})

		assert.ErrorIs(t, err, ErrCustomerValidation)
	})

	t.Run("invalid membership status", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").Return(nil, repositories.ErrNotFound)

		status := "PAUSED"
		req := validReq
		req.MembershipStatus = &status

		_, err := service.CreateCustomer(req)

		assert.ErrorIs(t, err, ErrInvalidMembership)
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").Return(nil, repositories.ErrNotFound)

		dob := "15-03-1990"
		req := validReq
		req.DateOfBirth = &dob

		_, err := service.CreateCustomer(req)

		assert.ErrorIs(t, err, ErrDateFormat)
	})

	t.Run("membership end before start", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByPhoneNumber", "+77010000001").Return(nil, repositories.ErrNotFound)

		start, end := "2026-06-01", "2026-01-01"
		req := validReq
		req.MembershipStartDate = &start
		req.MembershipEndDate = &end

		_, err := service.CreateCustomer(req)

		assert.ErrorIs(t, err, ErrCustomerValidation)
	})
}

func TestUpdateCustomer(t *testing.T) {
	existing := &models.Customer{CustomerID: 5, FullName: "Old Name", PhoneNumber: "+77010000005"}

	t.Run("builds fields only from supplied values", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByID", int64(5)).Return(existing, nil)
		mockRepo.On("UpdateCustomer", mock.Anything, int64(5), mock.MatchedBy(func(f *repositories.Fields) bool {
			return f.Len() == 1
		})).Return(&models.Customer{CustomerID: 5, FullName: "New Name"}, nil)

		name := "New Name"
		updated, err := service.UpdateCustomer(5, UpdateCustomerRequest{FullName: &name})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", updated.FullName)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no fields to update", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByID", int64(5)).Return(existing, nil)

		_, err := service.UpdateCustomer(5, UpdateCustomerRequest{})

		assert.ErrorIs(t, err, ErrCustomerValidation)
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByID", int64(404)).Return(nil, repositories.ErrNotFound)

		name := "New Name"
		_, err := service.UpdateCustomer(404, UpdateCustomerRequest{FullName: &name})

		assert.ErrorIs(t, err, ErrCustomerNotFound)
	})

	t.Run("phone number taken by another customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByID", int64(5)).Return(existing, nil)
		mockRepo.On("GetCustomerByPhoneNumber", "+77010000009").
			Return(&models.Customer{CustomerID: 9, PhoneNumber: "+77010000009"}, nil)

		phone := "+77010000009"
		_, err := service.UpdateCustomer(5, UpdateCustomerRequest{PhoneNumber: &phone})

		assert.ErrorIs(t, err, ErrPhoneNumberExists)
	})

	t.Run("keeping own phone number is not a conflict", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByID", int64(5)).Return(existing, nil)
		mockRepo.On("GetCustomerByPhoneNumber", "+77010000005").Return(existing, nil)
		mockRepo.On("UpdateCustomer", mock.Anything, int64(5), mock.Anything).Return(existing, nil)

		phone := "+77010000005"
		_, err := service.UpdateCustomer(5, UpdateCustomerRequest{PhoneNumber: &phone})

		assert.NoError(t, err)
	})
}

func TestDeleteCustomer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomerByID", int64(5)).Return(&models.Customer{CustomerID: 5}, nil)
		mockRepo.On("DeleteCustomer", mock.Anything, int64(5)).Return(nil)

		assert.NoError(t, service.DeleteCustomer(5))
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)
		mockRepo.On("GetCustomerByID", int64(404)).Return(nil, repositories.ErrNotFound)

		assert.ErrorIs(t, service.DeleteCustomer(404), ErrCustomerNotFound)
	})
}

func TestGetCustomers(t *testing.T) {
	t.Run("clamps non-positive pagination", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := NewCustomerService(mockRepo, nil)

		mockRepo.On("GetCustomers", 1, 10, mock.Anything).
			Return([]models.Customer{{CustomerID: 1}}, 1, nil)

		customers, total, err := service.GetCustomers(-3, 0, repositories.CustomerFilter{})

		assert.NoError(t, err)
		assert.Len(t, customers, 1)
		assert.Equal(t, 1, total)
		mockRepo.AssertExpectations(t)
	})
}
