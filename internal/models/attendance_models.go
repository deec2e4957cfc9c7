package models

import "time"

// Attendance status values.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// CustomerAttendance is a gym visit record for a customer.
// Weight is an optional reading taken at check-in.
type CustomerAttendance struct {
	AttendanceID   int64      `json:"attendanceId"`
	CustomerID     int64      `json:"customerId" binding:"required"`
	AttendanceDate time.Time  `json:"attendanceDate"`
	Status         string     `json:"status"`
	CheckInTime    *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime   *time.Time `json:"checkOutTime,omitempty"`
	Weight         *float64   `json:"weight,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	CustomerName *string `json:"customerName,omitempty"`
}

// StaffAttendance is a work-day record for a staff user.
type StaffAttendance struct {
	AttendanceID   int64      `json:"attendanceId"`
	UserID         int64      `json:"userId" binding:"required"`
	AttendanceDate time.Time  `json:"attendanceDate"`
	Status         string     `json:"status"`
	CheckInTime    *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime   *time.Time `json:"checkOutTime,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	StaffName *string `json:"staffName,omitempty"`
}
