package entity

import (
	"errors"
	"time"
)

type Status string

// Well-known statuses. Status transitions accept any non-empty string,
// so these are a convention for callers, not a closed set.
const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusDone      Status = "done"
)

var ErrMissingFields = errors.New("missing required fields")

// Order is a customer's submitted purchase intent plus its review status.
// JSON tags match the persisted orders.json layout.
type Order struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Product string     `json:"product"`
	Note    string     `json:"note,omitempty"`
	Payment string     `json:"payment"`
	Proof   *string    `json:"proof"` // attachment ref, null when no proof was submitted
	Status  Status     `json:"status"`
	Time    time.Time  `json:"time"`
	Updated *time.Time `json:"updated,omitempty"`
}

func (o *Order) Validate() error {
	if o.Name == "" || o.Product == "" || o.Payment == "" {
		return ErrMissingFields
	}
	return nil
}
