package book

import booksvc "campusbooks/service/book"

type BookReq struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Genre       string  `json:"genre"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price" validate:"gte=0"`
	TotalCopies int     `json:"total_copies" validate:"gte=0"`
}

func (r BookReq) toInput() booksvc.CreateBookInput {
	return booksvc.CreateBookInput{
		Title:       r.Title,
		Author:      r.Author,
		Genre:       r.Genre,
		ISBN:        r.ISBN,
		Price:       r.Price,
		TotalCopies: r.TotalCopies,
	}
}
