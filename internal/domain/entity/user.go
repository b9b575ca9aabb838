package entity

import "time"

// User is keyed by the WhatsApp sender id rather than a surrogate id,
// so every chat event maps straight onto its row.
type User struct {
	Sender       string    `db:"sender" json:"sender"`
	Username     *string   `db:"username" json:"username,omitempty"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
	Balance      int       `db:"balance" json:"balance"`
}
