package requestsvc

import (
	"context"
	"database/sql"
	"errors"

	"campusbooks/model"
	"campusbooks/service/fault"
	"campusbooks/util/database"
)

type Repo interface {
	Insert(ctx context.Context, br *model.BookRequest) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.BookRequest, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.RequestStatus) error
	ListAll(ctx context.Context) ([]model.BookRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]model.BookRequest, error)
}

type CreateInput struct {
	Title  string
	Author string
	Genre  string
	Reason string
}

type Service interface {
	Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.BookRequest, error)
	// List returns every request for admins, the caller's own otherwise.
	List(ctx context.Context, actor model.Actor) ([]model.BookRequest, error)
	Approve(ctx context.Context, actor model.Actor, id int64) error
	Reject(ctx context.Context, actor model.Actor, id int64) error
}

type service struct {
	txr database.TxRunner
	r   Repo
}

func New(txr database.TxRunner, r Repo) Service { return &service{txr: txr, r: r} }

func (s *service) Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.BookRequest, error) {
	if !actor.IsStudent() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	if in.Title == "" || in.Author == "" {
		return nil, fault.New(fault.CodeInvalidQuantity)
	}
	genre := in.Genre
	if genre == "" {
		genre = "General"
	}
	br := &model.BookRequest{
		UserID: actor.ID,
		Title:  in.Title,
		Author: in.Author,
		Genre:  genre,
		Reason: in.Reason,
		Status: model.RequestPending,
	}
	if err := s.r.Insert(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

func (s *service) List(ctx context.Context, actor model.Actor) ([]model.BookRequest, error) {
	if actor.IsAdmin() {
		return s.r.ListAll(ctx)
	}
	return s.r.ListByUser(ctx, actor.ID)
}

func (s *service) Approve(ctx context.Context, actor model.Actor, id int64) error {
	return s.resolve(ctx, actor, id, model.RequestApproved)
}

func (s *service) Reject(ctx context.Context, actor model.Actor, id int64) error {
	return s.resolve(ctx, actor, id, model.RequestRejected)
}

func (s *service) resolve(ctx context.Context, actor model.Actor, id int64, status model.RequestStatus) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		br, err := s.r.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fault.New(fault.CodeNotFound)
			}
			return err
		}
		if br.Status != model.RequestPending {
			return fault.New(fault.CodeInvalidState)
		}
		return s.r.SetStatus(ctx, tx, id, status)
	})
}
