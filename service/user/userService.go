package usersvc

import (
	"context"
	"database/sql"
	"errors"

	"campusbooks/model"
	"campusbooks/service/fault"
	"campusbooks/util/database"
)

type Users interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, name, profilePic string) error
	ListStudents(ctx context.Context) ([]model.User, error)
	UpdateStudent(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
}

type Ledger interface {
	Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
}

type Orders interface {
	ActiveByUserForUpdate(ctx context.Context, tx *sql.Tx, userID int64) ([]model.Order, error)
	SetStatus(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error
}

type Carts interface {
	LinesForUpdateByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]model.CartLine, error)
	DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error
}

type Service interface {
	Profile(ctx context.Context, actor model.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor model.Actor, name, profilePic string) error

	ListStudents(ctx context.Context, actor model.Actor) ([]model.User, error)
	UpdateStudent(ctx context.Context, actor model.Actor, id int64, name, email string) error

	// DeleteStudent removes the account after unwinding every
	// reservation claim it holds: cart lines are released and deleted,
	// active orders released and canceled, all in one transaction.
	DeleteStudent(ctx context.Context, actor model.Actor, id int64) error
}

type service struct {
	txr    database.TxRunner
	ur     Users
	ledger Ledger
	orders Orders
	carts  Carts
}

func New(txr database.TxRunner, ur Users, ledger Ledger, orders Orders, carts Carts) Service {
	return &service{txr: txr, ur: ur, ledger: ledger, orders: orders, carts: carts}
}

func (s *service) Profile(ctx context.Context, actor model.Actor) (*model.User, error) {
	u, err := s.ur.ByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.New(fault.CodeNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, actor model.Actor, name, profilePic string) error {
	if name == "" {
		return fault.New(fault.CodeInvalidQuantity)
	}
	if err := s.ur.UpdateProfile(ctx, actor.ID, name, profilePic); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.CodeNotFound)
		}
		return err
	}
	return nil
}

func (s *service) ListStudents(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	return s.ur.ListStudents(ctx)
}

func (s *service) UpdateStudent(ctx context.Context, actor model.Actor, id int64, name, email string) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	if name == "" || email == "" {
		return fault.New(fault.CodeInvalidQuantity)
	}
	if err := s.ur.UpdateStudent(ctx, id, name, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.CodeNotFound)
		}
		return err
	}
	return nil
}

func (s *service) DeleteStudent(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		lines, err := s.carts.LinesForUpdateByUser(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := s.ledger.Release(ctx, tx, line.BookID, line.Quantity); err != nil {
				return err
			}
			if err := s.carts.DeleteLine(ctx, tx, line.ID); err != nil {
				return err
			}
		}

		orders, err := s.orders.ActiveByUserForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if err := s.ledger.Release(ctx, tx, o.BookID, o.Quantity); err != nil {
				return err
			}
			if err := s.orders.SetStatus(ctx, tx, o.ID, model.OrderCanceled); err != nil {
				return err
			}
		}

		if err := s.ur.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fault.New(fault.CodeNotFound)
			}
			return err
		}
		return nil
	})
}
