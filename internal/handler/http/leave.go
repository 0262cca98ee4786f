package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/nexhr/nexhr-backend-go/internal/domain/leave"
	"github.com/nexhr/nexhr-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ManagerApprove(w http.ResponseWriter, r *http.Request)
	ManagerReject(w http.ResponseWriter, r *http.Request)
	HRApprove(w http.ResponseWriter, r *http.Request)
	HRReject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.Service
}

func NewLeaveHandler(leaveService leave.Service) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// employee_id comes from the token, never from the body
	employeeID, ok := claimString(r, "employee_id")
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}
	req.EmployeeID = employeeID

	leaveRequest, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

// ManagerApprove implements LeaveHandler.
func (l *LeaveHandlerImpl) ManagerApprove(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	leaveRequest, err := l.leaveService.ManagerApprove(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved by manager", leaveRequest)
}

// ManagerReject implements LeaveHandler.
func (l *LeaveHandlerImpl) ManagerReject(w http.ResponseWriter, r *http.Request) {
	req, ok := l.rejectRequest(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.ManagerReject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected by manager", leaveRequest)
}

// HRApprove implements LeaveHandler.
func (l *LeaveHandlerImpl) HRApprove(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	leaveRequest, err := l.leaveService.HRApprove(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", leaveRequest)
}

// HRReject implements LeaveHandler.
func (l *LeaveHandlerImpl) HRReject(w http.ResponseWriter, r *http.Request) {
	req, ok := l.rejectRequest(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.HRReject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", leaveRequest)
}

// Cancel implements LeaveHandler.
func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	employeeID, ok := claimString(r, "employee_id")
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	leaveRequest, err := l.leaveService.Cancel(r.Context(), requestID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled", leaveRequest)
}

// Get implements LeaveHandler.
func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	leaveRequest, err := l.leaveService.Get(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveRequest)
}

// List implements LeaveHandler.
func (l *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	list, err := l.leaveService.List(r.Context(), parseLeaveFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// ListMine implements LeaveHandler.
func (l *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := claimString(r, "employee_id")
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	list, err := l.leaveService.ListMine(r.Context(), employeeID, parseLeaveFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

func (l *LeaveHandlerImpl) rejectRequest(w http.ResponseWriter, r *http.Request) (leave.RejectRequestRequest, bool) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return leave.RejectRequestRequest{}, false
	}

	var req leave.RejectRequestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Reject decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return leave.RejectRequestRequest{}, false
		}
	}
	req.RequestID = requestID
	return req, true
}

func parseLeaveFilter(r *http.Request) leave.Filter {
	filter := leave.Filter{}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}
	if managerApproval := r.URL.Query().Get("manager_approval_status"); managerApproval != "" {
		filter.ManagerApproval = &managerApproval
	}
	if leaveType := r.URL.Query().Get("leave_type"); leaveType != "" {
		filter.LeaveType = &leaveType
	}
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	return filter
}

func claimString(r *http.Request, key string) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	value, ok := claims[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
