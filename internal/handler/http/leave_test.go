package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexhr/nexhr-backend-go/internal/domain/leave"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/validator"
)

// fakeLeaveService lets each test stub just the method under test.
type fakeLeaveService struct {
	submit         func(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error)
	managerApprove func(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error)
	managerReject  func(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error)
	hrApprove      func(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error)
	hrReject       func(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error)
	cancel         func(ctx context.Context, requestID, employeeID string) (leave.LeaveRequestResponse, error)
	get            func(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error)
	list           func(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error)
	listMine       func(ctx context.Context, employeeID string, filter leave.Filter) (leave.ListLeaveRequestResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	return f.submit(ctx, req)
}
func (f *fakeLeaveService) ManagerApprove(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	return f.managerApprove(ctx, requestID)
}
func (f *fakeLeaveService) ManagerReject(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	return f.managerReject(ctx, req)
}
func (f *fakeLeaveService) HRApprove(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	return f.hrApprove(ctx, requestID)
}
func (f *fakeLeaveService) HRReject(ctx context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	return f.hrReject(ctx, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, requestID, employeeID string) (leave.LeaveRequestResponse, error) {
	return f.cancel(ctx, requestID, employeeID)
}
func (f *fakeLeaveService) Get(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	return f.get(ctx, requestID)
}
func (f *fakeLeaveService) List(ctx context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	return f.list(ctx, filter)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, employeeID string, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
	return f.listMine(ctx, employeeID, filter)
}

var testAuth = jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)

func authedRequest(t *testing.T, method, target string, body io.Reader, claims map[string]interface{}) *http.Request {
	t.Helper()

	r := httptest.NewRequest(method, target, body)
	if claims != nil {
		token, _, err := testAuth.Encode(claims)
		require.NoError(t, err)
		r = r.WithContext(jwtauth.NewContext(r.Context(), token, nil))
	}
	return r
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestLeaveHandlerSubmit(t *testing.T) {
	var captured leave.CreateLeaveRequestRequest
	handler := NewLeaveHandler(&fakeLeaveService{
		submit: func(_ context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
			captured = req
			return leave.LeaveRequestResponse{ID: "req-1", Status: leave.StatusPending}, nil
		},
	})

	payload := `{"leave_type":"annual","start_date":"2024-01-10","end_date":"2024-01-12","reason":"Family trip"}`
	r := authedRequest(t, http.MethodPost, "/api/v1/leaves", bytes.NewBufferString(payload), map[string]interface{}{
		"employee_id": "emp-1",
	})
	w := httptest.NewRecorder()

	handler.Submit(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "emp-1", captured.EmployeeID, "employee id must come from the token")
	body := decodeResponse(t, w)
	assert.Equal(t, true, body["success"])
}

func TestLeaveHandlerSubmit_MissingClaim(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{})

	r := authedRequest(t, http.MethodPost, "/api/v1/leaves", bytes.NewBufferString(`{}`), nil)
	w := httptest.NewRecorder()

	handler.Submit(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeaveHandlerSubmit_InvalidJSON(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{})

	r := authedRequest(t, http.MethodPost, "/api/v1/leaves", bytes.NewBufferString("{not json"), map[string]interface{}{
		"employee_id": "emp-1",
	})
	w := httptest.NewRecorder()

	handler.Submit(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaveHandlerSubmit_ValidationErrors(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{
		submit: func(_ context.Context, _ leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{}, validator.ValidationErrors{
				{Field: "end_date", Message: "must not be before start_date"},
			}
		},
	})

	r := authedRequest(t, http.MethodPost, "/api/v1/leaves", bytes.NewBufferString(`{}`), map[string]interface{}{
		"employee_id": "emp-1",
	})
	w := httptest.NewRecorder()

	handler.Submit(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeResponse(t, w)
	errDetail := body["error"].(map[string]interface{})
	details := errDetail["details"].(map[string]interface{})
	assert.Contains(t, details, "end_date")
}

func TestLeaveHandlerHRApprove_Gate(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{
		hrApprove: func(_ context.Context, requestID string) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{}, leave.ErrManagerApprovalRequired
		},
	})

	r := withURLParam(authedRequest(t, http.MethodPost, "/api/v1/leaves/req-1/approve", nil, map[string]interface{}{
		"employee_id": "hr-1",
	}), "id", "req-1")
	w := httptest.NewRecorder()

	handler.HRApprove(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLeaveHandlerManagerReject_ReasonOptional(t *testing.T) {
	var captured leave.RejectRequestRequest
	handler := NewLeaveHandler(&fakeLeaveService{
		managerReject: func(_ context.Context, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
			captured = req
			return leave.LeaveRequestResponse{ID: req.RequestID}, nil
		},
	})

	// No body at all.
	r := withURLParam(authedRequest(t, http.MethodPost, "/api/v1/leaves/req-1/manager-reject", nil, map[string]interface{}{
		"employee_id": "mgr-1",
	}), "id", "req-1")
	w := httptest.NewRecorder()
	handler.ManagerReject(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", captured.RequestID)
	assert.Empty(t, captured.Reason)

	// With a reason in the body; the id always comes from the URL.
	payload := `{"request_id":"spoofed","reason":"coverage gap"}`
	r = withURLParam(authedRequest(t, http.MethodPost, "/api/v1/leaves/req-2/manager-reject", bytes.NewBufferString(payload), map[string]interface{}{
		"employee_id": "mgr-1",
	}), "id", "req-2")
	w = httptest.NewRecorder()
	handler.ManagerReject(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-2", captured.RequestID)
	assert.Equal(t, "coverage gap", captured.Reason)
}

func TestLeaveHandlerCancel_OwnershipErrors(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{
		cancel: func(_ context.Context, requestID, employeeID string) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
		},
	})

	r := withURLParam(authedRequest(t, http.MethodPost, "/api/v1/leaves/req-1/cancel", nil, map[string]interface{}{
		"employee_id": "emp-2",
	}), "id", "req-1")
	w := httptest.NewRecorder()

	handler.Cancel(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaveHandlerGet_NotFound(t *testing.T) {
	handler := NewLeaveHandler(&fakeLeaveService{
		get: func(_ context.Context, requestID string) (leave.LeaveRequestResponse, error) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		},
	})

	r := withURLParam(authedRequest(t, http.MethodGet, "/api/v1/leaves/missing", nil, map[string]interface{}{
		"employee_id": "emp-1",
	}), "id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveHandlerList_ParsesFilter(t *testing.T) {
	var captured leave.Filter
	handler := NewLeaveHandler(&fakeLeaveService{
		list: func(_ context.Context, filter leave.Filter) (leave.ListLeaveRequestResponse, error) {
			captured = filter
			return leave.ListLeaveRequestResponse{Page: filter.Page, Limit: filter.Limit, TotalPages: 1}, nil
		},
	})

	r := authedRequest(t, http.MethodGet, "/api/v1/leaves?status=pending&leave_type=sick&page=2&limit=10", nil, map[string]interface{}{
		"employee_id": "hr-1",
	})
	w := httptest.NewRecorder()

	handler.List(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.Status)
	assert.Equal(t, "pending", *captured.Status)
	require.NotNil(t, captured.LeaveType)
	assert.Equal(t, "sick", *captured.LeaveType)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 10, captured.Limit)
}

func TestLeaveHandlerListMine_UsesClaimIdentity(t *testing.T) {
	var capturedEmployee string
	handler := NewLeaveHandler(&fakeLeaveService{
		listMine: func(_ context.Context, employeeID string, _ leave.Filter) (leave.ListLeaveRequestResponse, error) {
			capturedEmployee = employeeID
			return leave.ListLeaveRequestResponse{TotalPages: 1}, nil
		},
	})

	r := authedRequest(t, http.MethodGet, "/api/v1/leaves/my", nil, map[string]interface{}{
		"employee_id": "emp-1",
	})
	w := httptest.NewRecorder()

	handler.ListMine(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "emp-1", capturedEmployee)
}
