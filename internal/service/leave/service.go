package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/nexhr/nexhr-backend-go/internal/domain/employee"
	"github.com/nexhr/nexhr-backend-go/internal/domain/leave"
	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
)

// Notifier delivers a notification to its target audience, or queues it
// when nobody matching is live.
type Notifier interface {
	Dispatch(ctx context.Context, n notification.Notification) error
}

// TxRunner executes fn transactionally. In production it wraps
// postgresql.WithTransaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service implements leave.Service. Leave request writes fail loudly: a
// transition whose store write fails returns the error with the record
// unchanged. Only the notification emit afterwards is best-effort.
type Service struct {
	requests  leave.LeaveRequestRepository
	employees employee.EmployeeRepository
	targets   *notification.Builder
	notifier  Notifier
	tx        TxRunner
	logger    *slog.Logger
}

func NewService(
	requests leave.LeaveRequestRepository,
	employees employee.EmployeeRepository,
	targets *notification.Builder,
	notifier Notifier,
	tx TxRunner,
	logger *slog.Logger,
) *Service {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{
		requests:  requests,
		employees: employees,
		targets:   targets,
		notifier:  notifier,
		tx:        tx,
		logger:    logger,
	}
}

// Submit validates and creates a leave request in
// (pending, manager approval pending), then notifies the managers of the
// employee's department.
func (s *Service) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	request := leave.LeaveRequest{
		EmployeeID:      req.EmployeeID,
		LeaveType:       leave.Type(req.LeaveType),
		StartDate:       startDate,
		EndDate:         endDate,
		TotalDays:       leave.TotalDaysBetween(startDate, endDate),
		Reason:          req.Reason,
		Status:          leave.StatusPending,
		ManagerApproval: leave.ManagerApprovalPending,
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyManagers(ctx, created, notification.TypeLeaveSubmitted)

	return created.ToResponse(), nil
}

// ManagerApprove records the manager's approval; the overall status stays
// pending until HR acts.
func (s *Service) ManagerApprove(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, requestID, func(r *leave.LeaveRequest) error {
		return r.ManagerApprove()
	})
}

// ManagerReject records the manager's rejection. HR may still act on the
// request afterwards.
func (s *Service) ManagerReject(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, req.RequestID, func(r *leave.LeaveRequest) error {
		return r.ManagerReject(req.Reason)
	})
}

// HRApprove finalizes the request. Fails with
// leave.ErrManagerApprovalRequired until the manager has approved.
func (s *Service) HRApprove(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, requestID, func(r *leave.LeaveRequest) error {
		return r.HRApprove()
	})
}

// HRReject finalizes the request as rejected, regardless of the manager's
// decision.
func (s *Service) HRReject(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, req.RequestID, func(r *leave.LeaveRequest) error {
		return r.HRReject(req.Reason)
	})
}

// Cancel withdraws a pending request. Only the owning employee may cancel.
func (s *Service) Cancel(ctx context.Context, requestID, employeeID string) (leave.LeaveRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}

	resp, err := s.transition(ctx, requestID, func(r *leave.LeaveRequest) error {
		return r.Cancel()
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request.Status = leave.StatusCancelled
	s.notifyManagers(ctx, request, notification.TypeLeaveCancelled)

	return resp, nil
}

// Get returns a single leave request.
func (s *Service) Get(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return request.ToResponse(), nil
}

// List returns leave requests matching the filter, paginated. Page is
// 1-indexed; total pages is ceil(total/limit) with a minimum of 1.
func (s *Service) List(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = r.ToResponse()
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	return leave.ListLeaveRequestResponse{
		Requests:   responses,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListMine scopes the filter to one employee's own requests.
func (s *Service) ListMine(ctx context.Context, employeeID string, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	filter.EmployeeID = &employeeID
	return s.List(ctx, filter)
}

// transition loads the request, applies the state machine step, and
// persists the result, all inside one transaction. The entity method
// refuses invalid transitions before anything mutates, and a failed store
// write propagates with the stored record untouched.
func (s *Service) transition(ctx context.Context, requestID string, step func(*leave.LeaveRequest) error) (leave.LeaveRequestResponse, error) {
	var request leave.LeaveRequest

	err := s.tx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		if err := step(&request); err != nil {
			return err
		}

		status := string(request.Status)
		managerApproval := string(request.ManagerApproval)
		update := leave.UpdateLeaveRequestRequest{
			ID:              request.ID,
			Status:          &status,
			ManagerApproval: &managerApproval,
			RejectionReason: request.RejectionReason,
		}
		if err := s.requests.Update(ctx, update); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return request.ToResponse(), nil
}

// notifyManagers emits a manager-targeted notification for a submission or
// cancellation. Notification delivery is best-effort and never fails the
// transition that triggered it.
func (s *Service) notifyManagers(ctx context.Context, request leave.LeaveRequest, notifType notification.Type) {
	emp, err := s.employees.GetByID(ctx, request.EmployeeID)
	if err != nil {
		s.logger.Warn("skipping manager notification, employee lookup failed",
			slog.String("employee_id", request.EmployeeID),
			slog.Any("error", err),
		)
		return
	}

	target := s.targets.Build(emp.Department, notification.Overrides{})

	var n notification.Notification
	switch notifType {
	case notification.TypeLeaveCancelled:
		n = notification.NewLeaveCancelled(emp.Name, string(request.LeaveType), request.ID, target)
	default:
		n = notification.NewLeaveSubmitted(emp.Name, string(request.LeaveType), request.TotalDays, request.ID, target)
	}

	if err := s.notifier.Dispatch(ctx, n); err != nil {
		s.logger.Warn("failed to dispatch leave notification",
			slog.String("request_id", request.ID),
			slog.Any("error", err),
		)
	}
}
