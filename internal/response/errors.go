package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Import Sessions ───────────────────────────────────────────────
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"
	ErrRowNotFound     ErrCode = "ROW_NOT_FOUND"
	ErrNoValidRows     ErrCode = "NO_VALID_ROWS"
	ErrImportInFlight  ErrCode = "IMPORT_IN_FLIGHT"

	// ─── File Upload ───────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrEmptyFile       ErrCode = "EMPTY_FILE"
	ErrUnreadableFile  ErrCode = "UNREADABLE_FILE"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrUpstream ErrCode = "UPSTREAM_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "A school API bearer token is required."
	case ErrTokenExpired:
		return "The school API bearer token has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Import Sessions ───────────────────────────────────────────────
	case ErrSessionNotFound:
		return "Import session not found or expired."
	case ErrRowNotFound:
		return "Row not found in this import session."
	case ErrNoValidRows:
		return "No valid rows to import."
	case ErrImportInFlight:
		return "A submission is already in progress for this session."

	// ─── File Upload ───────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type. Upload .xlsx or .csv."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrEmptyFile:
		return "The file has no data rows."
	case ErrUnreadableFile:
		return "The file could not be read as a spreadsheet."

	// ─── Upstream ──────────────────────────────────────────────────────
	case ErrUpstream:
		return "The school API rejected the request."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
