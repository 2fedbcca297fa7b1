package complaint

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

type Complaint struct {
	ID          int64      `json:"id"`
	UserUID     string     `json:"user_uid"`
	OrderID     *int64     `json:"order_id"`
	IssueType   string     `json:"issue_type"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	AdminNote   *string    `json:"admin_note"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

type CreateInput struct {
	OrderID     *int64 `json:"order_id"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description"`
}

type ResolveInput struct {
	AdminNote string `json:"admin_note"`
}
