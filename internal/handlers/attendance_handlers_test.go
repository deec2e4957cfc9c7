package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock AttendanceService ---
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) CreateCustomerAttendance(req services.CreateCustomerAttendanceRequest) (*models.CustomerAttendance, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerAttendance), args.Error(1)
}

func (m *MockAttendanceService) GetCustomerAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.CustomerAttendance, int, error) {
	args := m.Called(page, pageSize, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.CustomerAttendance), args.Int(1), args.Error(2)
}

func (m *MockAttendanceService) UpdateCustomerAttendance(attendanceID int64, req services.UpdateAttendanceRequest) (*models.CustomerAttendance, error) {
	args := m.Called(attendanceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerAttendance), args.Error(1)
}

func (m *MockAttendanceService) DeleteCustomerAttendance(attendanceID int64) error {
	args := m.Called(attendanceID)
	return args.Error(0)
}

func (m *MockAttendanceService) CreateStaffAttendance(req services.CreateStaffAttendanceRequest) (*models.StaffAttendance, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffAttendance), args.Error(1)
}

func (m *MockAttendanceService) GetStaffAttendance(page, pageSize int, filter repositories.AttendanceFilter) ([]models.StaffAttendance, int, error) {
	args := m.Called(page, pageSize, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.StaffAttendance), args.Int(1), args.Error(2)
}

func (m *MockAttendanceService) UpdateStaffAttendance(attendanceID int64, req services.UpdateAttendanceRequest) (*models.StaffAttendance, error) {
	args := m.Called(attendanceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StaffAttendance), args.Error(1)
}

func (m *MockAttendanceService) DeleteStaffAttendance(attendanceID int64) error {
	args := m.Called(attendanceID)
	return args.Error(0)
}

func newCustomerAttendanceRouter(svc services.AttendanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewAttendanceHandler(svc)
	engine.POST("/api/customers/:id/attendance", handler.CreateCustomerAttendance)
	return engine
}

func TestCreateCustomerAttendanceHandler(t *testing.T) {
	t.Run("accepts a body without a customer ID and uses the path", func(t *testing.T) {
		mockSvc := new(MockAttendanceService)
		engine := newCustomerAttendanceRouter(mockSvc)

		mockSvc.On("CreateCustomerAttendance", mock.MatchedBy(func(req services.CreateCustomerAttendanceRequest) bool {
			return req.CustomerID == 5
		})).Return(&models.CustomerAttendance{
			AttendanceID:   11,
			CustomerID:     5,
			AttendanceDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Status:         models.AttendancePresent,
		}, nil)

		body := bytes.NewBufferString(`{"attendanceDate":"2026-09-01","status":"PRESENT"}`)
		req, err := http.NewRequest(http.MethodPost, "/api/customers/5/attendance", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("path customer wins over a customer ID in the body", func(t *testing.T) {
		mockSvc := new(MockAttendanceService)
		engine := newCustomerAttendanceRouter(mockSvc)

		mockSvc.On("CreateCustomerAttendance", mock.MatchedBy(func(req services.CreateCustomerAttendanceRequest) bool {
			return req.CustomerID == 5
		})).Return(&models.CustomerAttendance{AttendanceID: 12, CustomerID: 5}, nil)

		body := bytes.NewBufferString(`{"customerId":99,"status":"PRESENT"}`)
		req, err := http.NewRequest(http.MethodPost, "/api/customers/5/attendance", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("rejects a non-numeric customer ID in the path", func(t *testing.T) {
		mockSvc := new(MockAttendanceService)
		engine := newCustomerAttendanceRouter(mockSvc)

		body := bytes.NewBufferString(`{"status":"PRESENT"}`)
		req, err := http.NewRequest(http.MethodPost, "/api/customers/abc/attendance", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockSvc.AssertNotCalled(t, "CreateCustomerAttendance", mock.Anything)
	})
}
