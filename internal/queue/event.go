// Package queue defines the domain-event payloads exchanged over the
// message broker, the publisher that emits them and the audit consumer
// that records them.
package queue

// Queue names. Durable queues on the default exchange; routing key equals
// queue name.
const (
	UserLoggedInQueue  = "auth.user_logged_in"
	TenantCreatedQueue = "tenant.created"
)

// UserLoggedInEvent is published after every successful credential login
// or invitation acceptance. Consumers use it for audit trails and
// last-seen analytics without querying the primary database.
type UserLoggedInEvent struct {
	UserID     string  `json:"user_id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	TenantID   *string `json:"tenant_id"`
	IP         string  `json:"ip,omitempty"`
	UserAgent  string  `json:"user_agent,omitempty"`
	LoggedInAt string  `json:"logged_in_at"`
}

// TenantCreatedEvent is published once a tenant has been provisioned and
// flipped to ACTIVE.
type TenantCreatedEvent struct {
	TenantID   string   `json:"tenant_id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Plan       string   `json:"plan"`
	SchemaName string   `json:"schema_name"`
	Modules    []string `json:"modules"`
	CreatedBy  string   `json:"created_by"`
	CreatedAt  string   `json:"created_at"`
}
