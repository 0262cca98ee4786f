package leave

import (
	"time"

	"github.com/nexhr/nexhr-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

// CreateLeaveRequestRequest is the employee submission payload. Dates use
// the "YYYY-MM-DD" form.
type CreateLeaveRequestRequest struct {
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

// Validate checks the submission payload. It returns
// validator.ValidationErrors so the handler can render a field map.
func (r CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsInSlice(r.LeaveType, AllTypes()) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "must be one of sick, casual, annual, maternity, paternity, unpaid, other"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RejectRequestRequest carries a rejection with its optional reason.
type RejectRequestRequest struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// Filter is the server-side read filter. Page is 1-indexed.
type Filter struct {
	Status          *string
	ManagerApproval *string
	EmployeeID      *string
	LeaveType       *string
	StartDate       *string
	EndDate         *string
	Page            int
	Limit           int
}

// ============= Response DTOs =============

// LeaveRequestResponse represents a leave request in API responses.
type LeaveRequestResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	LeaveType       Type      `json:"leave_type"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalDays       int       `json:"total_days"`
	Reason          string    `json:"reason"`
	Status          Status    `json:"status"`
	ManagerApproval ManagerApprovalStatus `json:"manager_approval_status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListLeaveRequestResponse is a paginated list of leave requests.
type ListLeaveRequestResponse struct {
	Requests   []LeaveRequestResponse `json:"requests"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// ToResponse converts a LeaveRequest entity to its API shape.
func (r LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ManagerApproval: r.ManagerApproval,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
