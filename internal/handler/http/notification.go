package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"

	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
	"github.com/nexhr/nexhr-backend-go/internal/handler/http/response"
	notificationService "github.com/nexhr/nexhr-backend-go/internal/service/notification"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	service *notificationService.Service
}

func NewNotificationHandler(service *notificationService.Service) NotificationHandler {
	return &NotificationHandlerImpl{service: service}
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromClaims(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := h.service.List(r.Context(), identity.ID, page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// UnreadCount implements NotificationHandler.
func (h *NotificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromClaims(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), identity.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

// MarkRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromClaims(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	var req notification.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkRead decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.NotificationIDs) == 0 {
		response.BadRequest(w, "notification_ids is required", nil)
		return
	}

	if err := h.service.MarkRead(r.Context(), identity.ID, req.NotificationIDs); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notifications marked as read", nil)
}

// MarkAllRead implements NotificationHandler.
func (h *NotificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromClaims(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), identity.ID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// Stream implements NotificationHandler. It opens a manager session and
// streams hub events over SSE. Opening the session drains the pending
// mailbox first, so queued notifications arrive before live ones.
func (h *NotificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromClaims(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	sess, store, cleanup := h.service.OpenSession(r.Context(), identity)
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Backlog drained from the mailbox goes out first.
	for _, n := range store.Notifications() {
		writeSSE(w, "notification", n.ToResponse())
	}
	writeSSE(w, "unread_count", store.UnreadCount())
	flusher.Flush()

	for {
		select {
		case event, open := <-sess.C:
			if !open {
				return
			}
			writeSSE(w, event.Event, event.Data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal SSE payload", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

// identityFromClaims builds the routing identity from the access token's
// claims. Missing optional fields stay empty; the matcher never treats an
// empty field as a wildcard.
func identityFromClaims(r *http.Request) (notification.Identity, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return notification.Identity{}, false
	}

	id, _ := claims["employee_id"].(string)
	if id == "" {
		return notification.Identity{}, false
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	department, _ := claims["department"].(string)

	return notification.Identity{
		ID:         id,
		Name:       name,
		Email:      email,
		Department: department,
	}, true
}
