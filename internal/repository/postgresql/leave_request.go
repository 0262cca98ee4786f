package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nexhr/nexhr-backend-go/internal/domain/leave"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/database"
)

type leaveRequestRepository struct {
	db *database.DB
}

// NewLeaveRequestRepository creates a new leave request repository
func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, total_days, reason,
		status, manager_approval_status, rejection_reason, created_at, updated_at`

// Create inserts a new leave request
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	query := `
		INSERT INTO leave_requests (` + leaveRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(ctx, query,
		request.ID,
		request.EmployeeID,
		string(request.LeaveType),
		request.StartDate,
		request.EndDate,
		request.TotalDays,
		request.Reason,
		string(request.Status),
		string(request.ManagerApproval),
		request.RejectionReason,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID retrieves a leave request by ID
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return request, nil
}

// List retrieves leave requests matching the filter with a total count for
// pagination.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}
	if filter.ManagerApproval != nil {
		conditions = append(conditions, "manager_approval_status = "+arg(*filter.ManagerApproval))
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, "employee_id = "+arg(*filter.EmployeeID))
	}
	if filter.LeaveType != nil {
		conditions = append(conditions, "leave_type = "+arg(*filter.LeaveType))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "start_date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "end_date <= "+arg(*filter.EndDate))
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests WHERE " + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT `+leaveRequestColumns+`
		FROM leave_requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s
	`, where, arg(filter.Limit), arg(offset))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read leave requests: %w", err)
	}

	return requests, total, nil
}

// Update applies a status transition. Last write wins: concurrent writers
// on the same record are not coordinated here.
func (r *leaveRequestRepository) Update(ctx context.Context, update leave.UpdateLeaveRequestRequest) error {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Status != nil {
		sets = append(sets, "status = "+arg(*update.Status))
	}
	if update.ManagerApproval != nil {
		sets = append(sets, "manager_approval_status = "+arg(*update.ManagerApproval))
	}
	if update.RejectionReason != nil {
		sets = append(sets, "rejection_reason = "+arg(*update.RejectionReason))
	}

	query := fmt.Sprintf("UPDATE leave_requests SET %s WHERE id = %s",
		strings.Join(sets, ", "), arg(update.ID))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	var leaveType, status, managerApproval string

	err := row.Scan(
		&request.ID,
		&request.EmployeeID,
		&leaveType,
		&request.StartDate,
		&request.EndDate,
		&request.TotalDays,
		&request.Reason,
		&status,
		&managerApproval,
		&request.RejectionReason,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	request.LeaveType = leave.Type(leaveType)
	request.Status = leave.Status(status)
	request.ManagerApproval = leave.ManagerApprovalStatus(managerApproval)
	return request, nil
}
