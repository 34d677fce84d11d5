package domain

// Audit event types recorded by the service.
const (
	AuditLogin     = "LOGIN"
	AuditTabSwitch = "TAB_SWITCH"
	AuditReset     = "DB_RESET"
)

// AuditEvent is one security-relevant occurrence. UserID may be empty for
// events not tied to an account. Country is a best-effort ISO code resolved
// from the client IP.
type AuditEvent struct {
	UserID     string
	EventType  string
	Country    string
	Properties map[string]any
}
