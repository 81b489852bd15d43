package ordersvc

import (
	"context"
	"database/sql"
	"errors"

	inventoryrepo "campusbooks/repository/inventory"
	orderrepo "campusbooks/repository/order"
	"campusbooks/model"
	"campusbooks/service/fault"
	"campusbooks/util/database"
)

// Row = repository listing shape
type Row = orderrepo.Row

type Ledger interface {
	Reserve(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error
	AvailableForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int, error)
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*model.Order, error)
	SetStatus(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error
	SetQuantity(ctx context.Context, tx *sql.Tx, orderID int64, qty int) error
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
	ListAll(ctx context.Context) ([]Row, error)
	TopBooks(ctx context.Context, limit int) ([]orderrepo.BookSales, error)
}

type Carts interface {
	LinesForUpdateByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]model.CartLine, error)
	DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error
}

type Books interface {
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

// Stats is the admin top-books payload.
type Stats struct {
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

type Service interface {
	// Place reserves qty copies and creates a pending order.
	Place(ctx context.Context, actor model.Actor, bookID int64, qty int) (*model.Order, error)

	// Approve moves a pending order to approved. The copies stay
	// reserved; no ledger effect.
	Approve(ctx context.Context, actor model.Actor, orderID int64) error

	// Cancel lets the owner (or an admin) cancel a pending order,
	// releasing its copies.
	Cancel(ctx context.Context, actor model.Actor, orderID int64) error

	// AdminCancel cancels an order in any state except canceled,
	// releasing its copies.
	AdminCancel(ctx context.Context, actor model.Actor, orderID int64) error

	// EditQuantity changes a pending order's quantity. The new quantity
	// is bounded by the combined pool: the free copies plus the order's
	// own current hold.
	EditQuantity(ctx context.Context, actor model.Actor, orderID int64, newQty int) error

	// Checkout converts every cart line of the caller into a pending
	// order, all in one transaction. The ledger is untouched: the copies
	// were reserved when the lines were added.
	Checkout(ctx context.Context, actor model.Actor, paymentMethod string) ([]model.Order, error)

	ListMine(ctx context.Context, actor model.Actor) ([]Row, error)
	ListAll(ctx context.Context, actor model.Actor) ([]Row, error)
	TopBooks(ctx context.Context, actor model.Actor) (*Stats, error)
}

type service struct {
	txr    database.TxRunner
	ledger Ledger
	r      Repo
	carts  Carts
	books  Books
}

func New(txr database.TxRunner, ledger Ledger, r Repo, carts Carts, books Books) Service {
	return &service{txr: txr, ledger: ledger, r: r, carts: carts, books: books}
}

func (s *service) Place(ctx context.Context, actor model.Actor, bookID int64, qty int) (*model.Order, error) {
	if !actor.IsStudent() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	if qty < 1 {
		return nil, fault.New(fault.CodeInvalidQuantity)
	}
	if _, err := s.books.Detail(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.New(fault.CodeNotFound)
		}
		return nil, err
	}

	o := &model.Order{
		UserID:        actor.ID,
		BookID:        bookID,
		Quantity:      qty,
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentUnpaid,
	}
	err := s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		if err := s.ledger.Reserve(ctx, tx, bookID, qty); err != nil {
			if errors.Is(err, inventoryrepo.ErrInsufficient) {
				return fault.New(fault.CodeInsufficientInventory)
			}
			return err
		}
		return s.r.Insert(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Approve(ctx context.Context, actor model.Actor, orderID int64) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		o, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status != model.OrderPending {
			return fault.New(fault.CodeInvalidState)
		}
		return s.r.SetStatus(ctx, tx, orderID, model.OrderApproved)
	})
}

func (s *service) Cancel(ctx context.Context, actor model.Actor, orderID int64) error {
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		o, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != actor.ID && !actor.IsAdmin() {
			return fault.New(fault.CodeUnauthorized)
		}
		if o.Status != model.OrderPending {
			return fault.New(fault.CodeInvalidState)
		}
		if err := s.ledger.Release(ctx, tx, o.BookID, o.Quantity); err != nil {
			return err
		}
		return s.r.SetStatus(ctx, tx, orderID, model.OrderCanceled)
	})
}

func (s *service) AdminCancel(ctx context.Context, actor model.Actor, orderID int64) error {
	if !actor.IsAdmin() {
		return fault.New(fault.CodeUnauthorized)
	}
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		o, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status == model.OrderCanceled {
			return fault.New(fault.CodeInvalidState)
		}
		if err := s.ledger.Release(ctx, tx, o.BookID, o.Quantity); err != nil {
			return err
		}
		return s.r.SetStatus(ctx, tx, orderID, model.OrderCanceled)
	})
}

func (s *service) EditQuantity(ctx context.Context, actor model.Actor, orderID int64, newQty int) error {
	if newQty < 1 {
		return fault.New(fault.CodeInvalidQuantity)
	}
	return s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		o, err := s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != actor.ID {
			return fault.New(fault.CodeUnauthorized)
		}
		if o.Status != model.OrderPending {
			return fault.New(fault.CodeInvalidState)
		}

		// Bound against the combined pool: the free copies plus this
		// order's own hold. Checking only current availability would
		// wrongly reject any edit when the shelf is empty.
		avail, err := s.ledger.AvailableForUpdate(ctx, tx, o.BookID)
		if err != nil {
			return err
		}
		if newQty > avail+o.Quantity {
			return fault.New(fault.CodeInvalidQuantity)
		}
		if newQty != o.Quantity {
			if err := s.ledger.Release(ctx, tx, o.BookID, o.Quantity); err != nil {
				return err
			}
			if err := s.ledger.Reserve(ctx, tx, o.BookID, newQty); err != nil {
				if errors.Is(err, inventoryrepo.ErrInsufficient) {
					return fault.New(fault.CodeInsufficientInventory)
				}
				return err
			}
		}
		return s.r.SetQuantity(ctx, tx, orderID, newQty)
	})
}

func (s *service) Checkout(ctx context.Context, actor model.Actor, paymentMethod string) ([]model.Order, error) {
	if !actor.IsStudent() {
		return nil, fault.New(fault.CodeUnauthorized)
	}

	var created []model.Order
	err := s.txr.RunTx(ctx, func(tx *sql.Tx) error {
		created = created[:0]
		lines, err := s.carts.LinesForUpdateByUser(ctx, tx, actor.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fault.New(fault.CodeEmptyCart)
		}
		for _, line := range lines {
			o := model.Order{
				UserID:        actor.ID,
				BookID:        line.BookID,
				Quantity:      line.Quantity,
				Status:        model.OrderPending,
				PaymentMethod: &paymentMethod,
				PaymentStatus: model.PaymentUnpaid,
			}
			if err := s.r.Insert(ctx, tx, &o); err != nil {
				return err
			}
			if err := s.carts.DeleteLine(ctx, tx, line.ID); err != nil {
				return err
			}
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) ListMine(ctx context.Context, actor model.Actor) ([]Row, error) {
	return s.r.ListByUser(ctx, actor.ID)
}

func (s *service) ListAll(ctx context.Context, actor model.Actor) ([]Row, error) {
	if !actor.IsAdmin() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	return s.r.ListAll(ctx)
}

func (s *service) TopBooks(ctx context.Context, actor model.Actor) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, fault.New(fault.CodeUnauthorized)
	}
	sales, err := s.r.TopBooks(ctx, 5)
	if err != nil {
		return nil, err
	}
	st := &Stats{Labels: []string{}, Values: []int64{}}
	for _, row := range sales {
		st.Labels = append(st.Labels, row.Title)
		st.Values = append(st.Values, row.Total)
	}
	return st, nil
}

func (s *service) lockOrder(ctx context.Context, tx *sql.Tx, orderID int64) (*model.Order, error) {
	o, err := s.r.GetForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.New(fault.CodeNotFound)
		}
		return nil, err
	}
	return o, nil
}
