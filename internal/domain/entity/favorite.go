package entity

import "time"

type Favorite struct {
	ID      int64     `db:"id" json:"id"`
	Sender  string    `db:"sender" json:"sender"`
	AdID    int64     `db:"ad_id" json:"ad_id"`
	AddedAt time.Time `db:"added_at" json:"added_at"`
}

type Payment struct {
	ID          int64     `db:"id" json:"id"`
	Sender      string    `db:"sender" json:"sender"`
	Amount      int       `db:"amount" json:"amount"`
	PaymentDate time.Time `db:"payment_date" json:"payment_date"`
	Description *string   `db:"description" json:"description,omitempty"`
}

type ViewLog struct {
	ID       int64     `db:"id" json:"id"`
	AdID     int64     `db:"ad_id" json:"ad_id"`
	Sender   string    `db:"sender" json:"sender"`
	ViewedAt time.Time `db:"viewed_at" json:"viewed_at"`
}
