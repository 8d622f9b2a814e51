package models

// Notification is what the notification consumer hands to a sink for one recipient.
type Notification struct {
	TargetUserID string            `json:"user_id"`
	Title        string            `json:"title"`
	Body         string            `json:"body"`
	MessageID    string            `json:"message_id,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}
