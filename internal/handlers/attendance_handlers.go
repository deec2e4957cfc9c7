package handlers

import (
	"errors"
	"net/http"

	"fitclub_backend/internal/models"
	"fitclub_backend/internal/repositories"
	"fitclub_backend/internal/services"
	"fitclub_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler holds the attendance service.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

func attendanceFilterFromQuery(c *gin.Context) (repositories.AttendanceFilter, bool) {
	dateFrom, ok := queryDate(c, "dateFrom")
	if !ok {
		return repositories.AttendanceFilter{}, false
	}
	dateTo, ok := queryDate(c, "dateTo")
	if !ok {
		return repositories.AttendanceFilter{}, false
	}
	return repositories.AttendanceFilter{
		Status:   queryString(c, "status"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}, true
}

func respondAttendanceError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from attendanceService")
	switch {
	case errors.Is(err, services.ErrAttendanceNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Attendance record not found.", err.Error()))
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Customer not found.", err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
	case errors.Is(err, services.ErrAttendanceValidation), errors.Is(err, services.ErrInvalidAttendance), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Attendance operation failed.", "Internal error"))
	}
}

// --- Customer attendance ---

// CreateCustomerAttendance records a gym visit for the customer in the path.
func (h *AttendanceHandler) CreateCustomerAttendance(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateCustomerAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateCustomerAttendance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	req.CustomerID = customerID

	record, err := h.attendanceService.CreateCustomerAttendance(req)
	if err != nil {
		respondAttendanceError(c, err, "CreateCustomerAttendance")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetCustomerAttendance lists visits for the customer in the path.
func (h *AttendanceHandler) GetCustomerAttendance(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	filter.OwnerID = &customerID

	records, totalItems, err := h.attendanceService.GetCustomerAttendance(page, limit, filter)
	if err != nil {
		respondAttendanceError(c, err, "GetCustomerAttendance")
		return
	}

	if records == nil {
		records = []models.CustomerAttendance{}
	}
	listResponse(c, records, totalItems)
}

// UpdateCustomerAttendance updates a visit record.
func (h *AttendanceHandler) UpdateCustomerAttendance(c *gin.Context) {
	attendanceID, ok := parseIDParam(c, "attendanceId")
	if !ok {
		return
	}

	var req services.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateCustomerAttendance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	record, err := h.attendanceService.UpdateCustomerAttendance(attendanceID, req)
	if err != nil {
		respondAttendanceError(c, err, "UpdateCustomerAttendance")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteCustomerAttendance deletes a visit record.
func (h *AttendanceHandler) DeleteCustomerAttendance(c *gin.Context) {
	attendanceID, ok := parseIDParam(c, "attendanceId")
	if !ok {
		return
	}

	if err := h.attendanceService.DeleteCustomerAttendance(attendanceID); err != nil {
		respondAttendanceError(c, err, "DeleteCustomerAttendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}

// --- Staff attendance ---

// CreateStaffAttendance records a work day for a staff user.
func (h *AttendanceHandler) CreateStaffAttendance(c *gin.Context) {
	var req services.CreateStaffAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaffAttendance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	record, err := h.attendanceService.CreateStaffAttendance(req)
	if err != nil {
		respondAttendanceError(c, err, "CreateStaffAttendance")
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetStaffAttendance lists staff attendance with pagination and filters.
func (h *AttendanceHandler) GetStaffAttendance(c *gin.Context) {
	page, limit, ok := parsePagination(c)
	if !ok {
		return
	}
	filter, ok := attendanceFilterFromQuery(c)
	if !ok {
		return
	}
	if v := queryString(c, "userId"); v != nil {
		userID, ok := parseQueryInt64(c, "userId")
		if !ok {
			return
		}
		filter.OwnerID = &userID
	}

	records, totalItems, err := h.attendanceService.GetStaffAttendance(page, limit, filter)
	if err != nil {
		respondAttendanceError(c, err, "GetStaffAttendance")
		return
	}

	if records == nil {
		records = []models.StaffAttendance{}
	}
	listResponse(c, records, totalItems)
}

// UpdateStaffAttendance updates a staff attendance record.
func (h *AttendanceHandler) UpdateStaffAttendance(c *gin.Context) {
	attendanceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStaffAttendance: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	record, err := h.attendanceService.UpdateStaffAttendance(attendanceID, req)
	if err != nil {
		respondAttendanceError(c, err, "UpdateStaffAttendance")
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteStaffAttendance deletes a staff attendance record.
func (h *AttendanceHandler) DeleteStaffAttendance(c *gin.Context) {
	attendanceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.attendanceService.DeleteStaffAttendance(attendanceID); err != nil {
		respondAttendanceError(c, err, "DeleteStaffAttendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}
