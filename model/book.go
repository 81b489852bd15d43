package model

import "time"

// Book carries the catalog row plus the inventory counters. The counters
// are only ever mutated through the inventory repository: available_copies
// by Reserve/Release, total_copies by catalog administration.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	ISBN            string    `json:"isbn,omitempty"`
	Price           float64   `json:"price"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
}
