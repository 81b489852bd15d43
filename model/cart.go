package model

import "time"

// CartLine is a reservation claim: the quantity is already debited from the
// book's available_copies and stays debited until the line is removed
// (release) or checked out (converted into a pending order).
type CartLine struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	BookID   int64     `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}
