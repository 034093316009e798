package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Daycare-specific ──────────────────────────────────────────────
	ErrEmptyInvoice      ErrCode = "EMPTY_INVOICE"
	ErrEnrollmentWindow  ErrCode = "INVALID_ENROLLMENT_WINDOW"
	ErrAlreadyCheckedIn  ErrCode = "ALREADY_CHECKED_IN"
	ErrNotCheckedIn      ErrCode = "NOT_CHECKED_IN"
	ErrAlreadyClockedIn  ErrCode = "ALREADY_CLOCKED_IN"
	ErrNotClockedIn      ErrCode = "NOT_CLOCKED_IN"
	ErrNotEnrolled       ErrCode = "NOT_ENROLLED"
	ErrRenderUnavailable ErrCode = "RENDER_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You are not allowed to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrDependencyExists:
		return "The record is still referenced by other data and cannot be deleted."

	// ─── Daycare-specific ──────────────────────────────────────────────
	case ErrEmptyInvoice:
		return "There is nothing to invoice for this period."
	case ErrEnrollmentWindow:
		return "The planned end date must not be before the start date."
	case ErrAlreadyCheckedIn:
		return "The student is already checked in today."
	case ErrNotCheckedIn:
		return "The student has no open check-in today."
	case ErrAlreadyClockedIn:
		return "The staff member is already clocked in."
	case ErrNotClockedIn:
		return "The staff member is not clocked in."
	case ErrNotEnrolled:
		return "The student is not enrolled on this date."
	case ErrRenderUnavailable:
		return "The document could not be generated."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
