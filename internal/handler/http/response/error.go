package response

import (
	"errors"
	"net/http"

	"github.com/nexhr/nexhr-backend-go/internal/domain/employee"
	"github.com/nexhr/nexhr-backend-go/internal/domain/leave"
	"github.com/nexhr/nexhr-backend-go/internal/domain/notification"
	"github.com/nexhr/nexhr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyFinalized):
		Conflict(w, "Leave request already finalized")
	case errors.Is(err, leave.ErrManagerApprovalRequired):
		Conflict(w, "Manager approval is required before HR approval")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
