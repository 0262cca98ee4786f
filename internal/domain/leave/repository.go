package leave

import (
	"context"
)

// UpdateLeaveRequestRequest carries the fields a transition may change.
// Nil fields are left untouched.
type UpdateLeaveRequestRequest struct {
	ID              string
	Status          *string
	ManagerApproval *string
	RejectionReason *string
}

// LeaveRequestRepository - interface for the leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter Filter) ([]LeaveRequest, int64, error)
	Update(ctx context.Context, update UpdateLeaveRequestRequest) error
}
