package wishlistsvc

import (
	"context"
	"database/sql"
	"errors"

	"campusbooks/model"
	"campusbooks/service/fault"
)

type Repo interface {
	Toggle(ctx context.Context, userID, bookID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Book, error)
}

type Books interface {
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	// Toggle flips the bookmark and reports whether the book is on the
	// list afterwards. No inventory effect.
	Toggle(ctx context.Context, actor model.Actor, bookID int64) (bool, error)
	List(ctx context.Context, actor model.Actor) ([]model.Book, error)
}

type service struct {
	r     Repo
	books Books
}

func New(r Repo, books Books) Service { return &service{r: r, books: books} }

func (s *service) Toggle(ctx context.Context, actor model.Actor, bookID int64) (bool, error) {
	if _, err := s.books.Detail(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, fault.New(fault.CodeNotFound)
		}
		return false, err
	}
	return s.r.Toggle(ctx, actor.ID, bookID)
}

func (s *service) List(ctx context.Context, actor model.Actor) ([]model.Book, error) {
	return s.r.ListByUser(ctx, actor.ID)
}
