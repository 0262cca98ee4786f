package leave

import (
	"context"
)

// Service orchestrates leave request transitions against the record store
// and notifies interested managers.
type Service interface {
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ManagerApprove(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	ManagerReject(ctx context.Context, req RejectRequestRequest) (LeaveRequestResponse, error)
	HRApprove(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	HRReject(ctx context.Context, req RejectRequestRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID, employeeID string) (LeaveRequestResponse, error)
	Get(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	List(ctx context.Context, filter Filter) (ListLeaveRequestResponse, error)
	ListMine(ctx context.Context, employeeID string, filter Filter) (ListLeaveRequestResponse, error)
}
