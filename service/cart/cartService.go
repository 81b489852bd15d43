package cartsvc

import (
	"context"
	"database/sql"
	"errors"

	cartrepo "campusbooks/repository/cart"
	inventoryrepo "campusbooks/repository/inventory"
	"campusbooks/model"
	"campusbooks/service/fault"
	"campusbooks/util/database"
)

// Row = repository listing shape
type Row = cartrepo.Row

type Ledger interface {
	Reserve(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
}

type Repo interface {
	Upsert(ctx context.Context, tx *sql.Tx, userID, bookID int64, qty int) (int64, error)
	LineForUpdate(ctx context.Context, tx *sql.Tx, lineID int64) (*model.CartLine, error)
	DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
}

type Books interface {
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	// Add reserves qty copies and merges them into the caller's cart line
	// for the book. Fails whole on insufficient inventory.
	Add(ctx context.Context, actor model.Actor, bookID int64, qty int) (int64, error)

	// Remove releases the line's copies back to the book and deletes it.
	Remove(ctx context.Context, actor model.Actor, lineID int64) error

	// List is a pure read of the caller's cart.
	List(ctx context.Context, actor model.Actor) ([]Row, error)
}

type service struct {
	txr    database.TxRunner
	ledger Ledger
	r      Repo
	books  Books
}

func New(txr database.TxRunner, ledger Ledger, r Repo, books Books) Service {
	return &service{txr: txr, ledger: ledger, r: r, books: books}
}

func (s *service) Add(ctx context.Context, actor model.Actor, bookID int64, qty int) (int64, error) {
	if !actor.IsStudent() {
		return 0, fault.New(fault.CodeUnauthorized)
	}
	if qty < 1 {
		return 0, fault.New(fault.CodeInvalidQuantity)
	}
	if _, err := s.books.Detail(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fault.New(fault.CodeNotFound)
		}
		return 0, err
	}

	var lineID int64
	err := s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		if err := s.ledger.Reserve(ctx, tx, bookID, qty); err != nil {
			if errors.Is(err, inventoryrepo.ErrInsufficient) {
				return fault.New(fault.CodeInsufficientInventory)
			}
			return err
		}
		id, err := s.r.Upsert(ctx, tx, actor.ID, bookID, qty)
		if err != nil {
			return err
		}
		lineID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return lineID, nil
}

func (s *service) Remove(ctx context.Context, actor model.Actor, lineID int64) error {
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		line, err := s.r.LineForUpdate(ctx, tx, lineID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fault.New(fault.CodeNotFound)
			}
			return err
		}
		if line.UserID != actor.ID {
			return fault.New(fault.CodeUnauthorized)
		}
		if err := s.ledger.Release(ctx, tx, line.BookID, line.Quantity); err != nil {
			return err
		}
		return s.r.DeleteLine(ctx, tx, lineID)
	})
}

func (s *service) List(ctx context.Context, actor model.Actor) ([]Row, error) {
	return s.r.ListByUser(ctx, actor.ID)
}
