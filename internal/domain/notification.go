package domain

import "time"

// Notification is an alert row for back-office staff. This core only records
// them; dispatch (email, dashboard) is owned by surrounding application code.
type Notification struct {
	ID         int32             `json:"id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}
