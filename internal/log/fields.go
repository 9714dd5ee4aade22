package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldExpenseID  = "expense_id"
	FieldAmount     = "amount"
	FieldPlace      = "place"
	FieldCategory   = "category"
	FieldEventType  = "event_type"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
