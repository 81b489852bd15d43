package booksvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"campusbooks/model"
	"campusbooks/service/fault"
)

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, query string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

// CreateBookInput carries the admin catalog form. TotalCopies becomes both
// counters at creation: a new book starts fully available.
type CreateBookInput struct {
	Title       string
	Author      string
	Genre       string
	ISBN        string
	Price       float64
	TotalCopies int
}

type Service interface {
	Create(ctx context.Context, actor model.Actor, in CreateBookInput) (*model.Book, error)
	Update(ctx context.Context, actor model.Actor, id int64, in CreateBookInput) error
	Delete(ctx context.Context, actor model.Actor, id int64) error
	List(ctx context.Context, query string) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

const (
	catalogKey = "catalog:all"
	catalogTTL = 30 * time.Second
)

type service struct {
	r     Repo
	cache *redis.Client // nil disables caching
	log   *slog.Logger
}

func New(r Repo, cache *redis.Client, log *slog.Logger) Service {
	return &service{r: r, cache: cache, log: log}
}

func (s *service) Create(ctx context.Context, actor model.Actor, in CreateBookInput) (*model.Book, error) {
	if !actor.IsAdmin() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	if in.Title == "" || in.Author == "" || in.TotalCopies < 0 || in.Price < 0 {
		return nil, fault.New(fault.CodeInvalidQuantity)
	}
	b := &model.Book{
		Title:           in.Title,
		Author:          in.Author,
		Genre:           orDefault(in.Genre),
		ISBN:            in.ISBN,
		Price:           in.Price,
		TotalCopies:     in.TotalCopies,
		AvailableCopies: in.TotalCopies,
	}
	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return b, nil
}

func (s *service) Update(ctx context.Context, actor model.Actor, id int64, in CreateBookInput) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	if in.Title == "" || in.Author == "" || in.TotalCopies < 0 || in.Price < 0 {
		return fault.New(fault.CodeInvalidQuantity)
	}
	if _, err := s.r.Detail(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.CodeNotFound)
		}
		return err
	}
	b := &model.Book{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		Genre:       orDefault(in.Genre),
		ISBN:        in.ISBN,
		Price:       in.Price,
		TotalCopies: in.TotalCopies,
	}
	if err := s.r.Update(ctx, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Capacity cannot drop below the copies currently held by
			// carts and active orders.
			return fault.New(fault.CodeInvalidState)
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	if _, err := s.r.Detail(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fault.New(fault.CodeNotFound)
		}
		return err
	}
	deleted, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fault.New(fault.CodeInvalidState)
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) List(ctx context.Context, query string) ([]model.Book, error) {
	// Only the unfiltered listing is cached; availability staleness is
	// bounded by the TTL and orders always hit the database.
	if s.cache != nil && query == "" {
		if raw, err := s.cache.Get(ctx, catalogKey).Bytes(); err == nil {
			var out []model.Book
			if json.Unmarshal(raw, &out) == nil {
				return out, nil
			}
		}
	}

	out, err := s.r.List(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && query == "" {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, catalogKey, raw, catalogTTL).Err(); err != nil {
				s.log.Warn("catalog cache set failed", "err", err)
			}
		}
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.New(fault.CodeNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogKey).Err(); err != nil {
		s.log.Warn("catalog cache invalidate failed", "err", err)
	}
}

func orDefault(genre string) string {
	if genre == "" {
		return "General"
	}
	return genre
}
