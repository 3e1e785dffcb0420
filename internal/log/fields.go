package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldTransaction = "transaction_id"
	FieldTxType      = "type"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldBudgetLimit = "budget_limit"
)

// Component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentReport    = "report"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
	ComponentTemplate  = "template"
)

// Fields is an ordered builder for slog key/value pairs.
type Fields []any

func NewFields() Fields {
	return make(Fields, 0, 8)
}

func (f Fields) With(key string, value any) Fields {
	return append(f, key, value)
}

func (f Fields) WithError(err error) Fields {
	if err == nil {
		return f
	}
	return append(f, FieldError, err.Error())
}

func (f Fields) WithOperation(op string) Fields {
	return append(f, FieldOperation, op)
}

func (f Fields) WithHTTPRequest(method, path, query, userAgent string) Fields {
	return append(f,
		FieldMethod, method,
		FieldPath, path,
		FieldQuery, query,
		FieldUserAgent, userAgent)
}

func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	return append(f,
		FieldStatusCode, statusCode,
		FieldDuration, durationMs,
		FieldSuccess, statusCode < 400)
}
