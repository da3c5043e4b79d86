package dto

// Error codes for StatusResponse.Err that do not come from validation.
const (
	ErrInvalidBody = "invalid_body"
	ErrStorage     = "storage_error"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusResponse is the write-path reply: {"ok":true} or {"ok":false,"err":"no_uid"}.
type StatusResponse struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}
