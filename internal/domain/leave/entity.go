package leave

import (
	"time"
)

// Status is the overall, HR-facing status of a leave request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ManagerApprovalStatus is the direct manager's decision, independent of the
// final HR status.
type ManagerApprovalStatus string

const (
	ManagerApprovalPending  ManagerApprovalStatus = "pending"
	ManagerApprovalApproved ManagerApprovalStatus = "approved"
	ManagerApprovalRejected ManagerApprovalStatus = "rejected"
)

// Type is the leave category
type Type string

const (
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypeAnnual    Type = "annual"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeUnpaid    Type = "unpaid"
	TypeOther     Type = "other"
)

// AllTypes returns the valid leave types.
func AllTypes() []string {
	return []string{
		string(TypeSick),
		string(TypeCasual),
		string(TypeAnnual),
		string(TypeMaternity),
		string(TypePaternity),
		string(TypeUnpaid),
		string(TypeOther),
	}
}

// LeaveRequest entity. Status and ManagerApprovalStatus advance
// independently: the manager's decision never changes the overall status,
// and HR approval is gated on it.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  Type

	StartDate time.Time
	EndDate   time.Time

	// TotalDays is fixed at submission time and never recomputed.
	TotalDays int

	Reason          string
	Status          Status
	ManagerApproval ManagerApprovalStatus
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalDaysBetween counts the calendar days covered by an inclusive date
// range: floor((end-start)/day) + 1.
func TotalDaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// ManagerApprove records the manager's approval. Allowed only while the
// overall status is pending; the overall status is not changed.
func (r *LeaveRequest) ManagerApprove() error {
	if r.Status != StatusPending {
		return ErrLeaveAlreadyFinalized
	}
	r.ManagerApproval = ManagerApprovalApproved
	return nil
}

// ManagerReject records the manager's rejection with an optional reason.
// The overall status is not changed: HR still has final say.
func (r *LeaveRequest) ManagerReject(reason string) error {
	if r.Status != StatusPending {
		return ErrLeaveAlreadyFinalized
	}
	r.ManagerApproval = ManagerApprovalRejected
	if reason != "" {
		r.RejectionReason = &reason
	}
	return nil
}

// HRApprove finalizes the request as approved. HR cannot approve before the
// manager has; the service enforces this even though the UI disables the
// action.
func (r *LeaveRequest) HRApprove() error {
	if r.Status != StatusPending {
		return ErrLeaveAlreadyFinalized
	}
	if r.ManagerApproval != ManagerApprovalApproved {
		return ErrManagerApprovalRequired
	}
	r.Status = StatusApproved
	return nil
}

// HRReject finalizes the request as rejected. There is no gate on the
// manager's decision: HR may reject regardless of it.
func (r *LeaveRequest) HRReject(reason string) error {
	if r.Status != StatusPending {
		return ErrLeaveAlreadyFinalized
	}
	r.Status = StatusRejected
	if reason != "" {
		r.RejectionReason = &reason
	}
	return nil
}

// Cancel withdraws the request. Allowed only while the overall status is
// pending, regardless of the manager's decision. Terminal.
func (r *LeaveRequest) Cancel() error {
	if r.Status != StatusPending {
		return ErrLeaveAlreadyFinalized
	}
	r.Status = StatusCancelled
	return nil
}
