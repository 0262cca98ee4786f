package leave

import "errors"

var (
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrLeaveAlreadyFinalized   = errors.New("leave request has already been finalized")
	ErrManagerApprovalRequired = errors.New("leave request requires manager approval first")
	ErrNotRequestOwner         = errors.New("leave request belongs to another employee")
)
