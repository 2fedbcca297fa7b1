package complaint

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id int64) (*Complaint, error)
	ListByUser(ctx context.Context, userUID string) ([]*Complaint, error)
	ListAll(ctx context.Context, status *Status) ([]*Complaint, error)
	Resolve(ctx context.Context, id int64, adminNote string, at time.Time) (*Complaint, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const complaintColumns = `
	id, user_uid, order_id, issue_type, description,
	status, admin_note, created_at, resolved_at
`

func scanComplaint(row interface{ Scan(...any) error }) (*Complaint, error) {
	var c Complaint
	err := row.Scan(
		&c.ID, &c.UserUID, &c.OrderID, &c.IssueType, &c.Description,
		&c.Status, &c.AdminNote, &c.CreatedAt, &c.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	const q = `
		INSERT INTO complaints (user_uid, order_id, issue_type, description, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at
	`
	return r.db.QueryRowContext(ctx, q,
		c.UserUID, c.OrderID, c.IssueType, c.Description,
	).Scan(&c.ID, &c.Status, &c.CreatedAt)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Complaint, error) {
	q := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	c, err := scanComplaint(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrComplaintNotFound
	}
	return c, err
}

func (r *repository) ListByUser(ctx context.Context, userUID string) ([]*Complaint, error) {
	q := `SELECT ` + complaintColumns + ` FROM complaints WHERE user_uid = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, userUID)
}

func (r *repository) ListAll(ctx context.Context, status *Status) ([]*Complaint, error) {
	q := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *repository) list(ctx context.Context, q string, args ...any) ([]*Complaint, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Resolve only touches pending complaints; a zero row count means the ticket
// is missing or already resolved and the caller disambiguates.
func (r *repository) Resolve(ctx context.Context, id int64, adminNote string, at time.Time) (*Complaint, error) {
	const q = `
		UPDATE complaints
		SET status = 'resolved', admin_note = $2, resolved_at = $3
		WHERE id = $1 AND status = 'pending'
	`
	res, err := r.db.ExecContext(ctx, q, id, adminNote, at)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrComplaintNotFound
	}
	return r.GetByID(ctx, id)
}
