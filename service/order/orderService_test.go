package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	inventoryrepo "campusbooks/repository/inventory"
	orderrepo "campusbooks/repository/order"
	"campusbooks/model"
	"campusbooks/service/fault"
)

// txStub satisfies database.TxRunner without a database; every mock below
// ignores the *sql.Tx it is handed.
type txStub struct{}

func (txStub) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

// fakeLedger keeps per-book availability behind a mutex so concurrent
// reservations contend the same way conditional updates do on a row.
type fakeLedger struct {
	mu    sync.Mutex
	avail map[int64]int
	total map[int64]int
}

func newFakeLedger(bookID int64, avail, total int) *fakeLedger {
	return &fakeLedger{
		avail: map[int64]int{bookID: avail},
		total: map[int64]int{bookID: total},
	}
}

func (l *fakeLedger) Reserve(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.avail[bookID] < qty {
		return inventoryrepo.ErrInsufficient
	}
	l.avail[bookID] -= qty
	return nil
}

func (l *fakeLedger) Release(ctx context.Context, tx *sql.Tx, bookID int64, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.avail[bookID] += qty
	if cap, ok := l.total[bookID]; ok && l.avail[bookID] > cap {
		l.avail[bookID] = cap
	}
	return nil
}

func (l *fakeLedger) AvailableForUpdate(ctx context.Context, tx *sql.Tx, bookID int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avail[bookID], nil
}

func (l *fakeLedger) available(bookID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avail[bookID]
}

// memOrders is an in-memory order table.
type memOrders struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*model.Order

	insertErr error
}

func newMemOrders(seed ...*model.Order) *memOrders {
	m := &memOrders{rows: map[int64]*model.Order{}, nextID: 100}
	for _, o := range seed {
		m.rows[o.ID] = o
	}
	return m
}

func (m *memOrders) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	o.ID = m.nextID
	cp := *o
	m.rows[o.ID] = &cp
	return nil
}

func (m *memOrders) GetForUpdate(ctx context.Context, tx *sql.Tx, orderID int64) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[orderID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) SetStatus(ctx context.Context, tx *sql.Tx, orderID int64, status model.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[orderID].Status = status
	return nil
}

func (m *memOrders) SetQuantity(ctx context.Context, tx *sql.Tx, orderID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[orderID].Quantity = qty
	return nil
}

func (m *memOrders) ListByUser(ctx context.Context, userID int64) ([]Row, error) { return nil, nil }
func (m *memOrders) ListAll(ctx context.Context) ([]Row, error)                  { return nil, nil }
func (m *memOrders) TopBooks(ctx context.Context, limit int) ([]orderrepo.BookSales, error) {
	return nil, nil
}

func (m *memOrders) get(id int64) model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[id]
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// cartsMock holds cart lines for checkout tests.
type cartsMock struct {
	mu        sync.Mutex
	lines     []model.CartLine
	deleted   []int64
	deleteErr error
}

func (c *cartsMock) LinesForUpdateByUser(ctx context.Context, tx *sql.Tx, userID int64) ([]model.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out, nil
}

func (c *cartsMock) DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, lineID)
	return nil
}

type booksMock struct {
	detailFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (b *booksMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	if b.detailFn == nil {
		return &model.Book{ID: id}, nil
	}
	return b.detailFn(ctx, id)
}

var (
	student      = model.Actor{ID: 1, Role: model.RoleStudent}
	otherStudent = model.Actor{ID: 2, Role: model.RoleStudent}
	admin        = model.Actor{ID: 9, Role: model.RoleAdmin}
)

func newSvc(ledger *fakeLedger, orders *memOrders, carts *cartsMock, books *booksMock) Service {
	if carts == nil {
		carts = &cartsMock{}
	}
	if books == nil {
		books = &booksMock{}
	}
	return New(txStub{}, ledger, orders, carts, books)
}

// --- place ---

func TestPlace_ReservesAndCreatesPending(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 5, 5)
	orders := newMemOrders()
	svc := newSvc(ledger, orders, nil, nil)

	o, err := svc.Place(ctx, student, 7, 2)
	require.NoError(t, err)
	require.Equal(t, model.OrderPending, o.Status)
	require.Equal(t, 2, o.Quantity)
	require.Equal(t, 3, ledger.available(7))
}

func TestPlace_Insufficient(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 1, 5)
	orders := newMemOrders()
	svc := newSvc(ledger, orders, nil, nil)

	_, err := svc.Place(ctx, student, 7, 2)
	require.Equal(t, fault.CodeInsufficientInventory, fault.Of(err))
	require.Equal(t, 1, ledger.available(7))
	require.Equal(t, 0, orders.count())
}

func TestPlace_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 5, 5), newMemOrders(), nil, nil)

	_, err := svc.Place(ctx, student, 7, 0)
	require.Equal(t, fault.CodeInvalidQuantity, fault.Of(err))

	_, err = svc.Place(ctx, admin, 7, 1)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
}

func TestPlace_BookMissing(t *testing.T) {
	ctx := context.Background()
	books := &booksMock{detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	svc := newSvc(newFakeLedger(7, 5, 5), newMemOrders(), nil, books)

	_, err := svc.Place(ctx, student, 99, 1)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}

// Concurrent reservations must never drive availability below zero, and
// exactly as many orders succeed as there are copies.
func TestPlace_NoOversell(t *testing.T) {
	ctx := context.Background()
	const copies = 3
	const callers = 20

	ledger := newFakeLedger(7, copies, copies)
	orders := newMemOrders()
	svc := newSvc(ledger, orders, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Place(ctx, student, 7, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, copies, succeeded)
	require.Equal(t, 0, ledger.available(7))
	require.Equal(t, copies, orders.count())
}

// --- approve / cancel ---

func TestApprove_PendingOnly(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderPending})
	svc := newSvc(ledger, orders, nil, nil)

	require.NoError(t, svc.Approve(ctx, admin, 10))
	require.Equal(t, model.OrderApproved, orders.get(10).Status)
	// approval holds the reservation, nothing comes back
	require.Equal(t, 0, ledger.available(7))

	err := svc.Approve(ctx, admin, 10)
	require.Equal(t, fault.CodeInvalidState, fault.Of(err))
}

func TestApprove_AdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 0, 5), newMemOrders(), nil, nil)

	err := svc.Approve(ctx, student, 10)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
}

func TestApprove_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 0, 5), newMemOrders(), nil, nil)

	err := svc.Approve(ctx, admin, 404)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}

func TestCancel_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 1, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderPending})
	svc := newSvc(ledger, orders, nil, nil)

	require.NoError(t, svc.Cancel(ctx, student, 10))
	require.Equal(t, model.OrderCanceled, orders.get(10).Status)
	require.Equal(t, 3, ledger.available(7))
}

func TestCancel_OwnerOrAdminOnly(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderPending})
	svc := newSvc(newFakeLedger(7, 1, 5), orders, nil, nil)

	err := svc.Cancel(ctx, otherStudent, 10)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))

	require.NoError(t, svc.Cancel(ctx, admin, 10))
}

func TestCancel_NonPending(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderApproved})
	svc := newSvc(newFakeLedger(7, 1, 5), orders, nil, nil)

	err := svc.Cancel(ctx, student, 10)
	require.Equal(t, fault.CodeInvalidState, fault.Of(err))
}

func TestAdminCancel_ApprovedReleases(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 3, Status: model.OrderApproved})
	svc := newSvc(ledger, orders, nil, nil)

	require.NoError(t, svc.AdminCancel(ctx, admin, 10))
	require.Equal(t, model.OrderCanceled, orders.get(10).Status)
	require.Equal(t, 3, ledger.available(7))

	// a second cancel must not release again
	err := svc.AdminCancel(ctx, admin, 10)
	require.Equal(t, fault.CodeInvalidState, fault.Of(err))
	require.Equal(t, 3, ledger.available(7))
}

func TestAdminCancel_AdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 0, 5), newMemOrders(), nil, nil)

	err := svc.AdminCancel(ctx, student, 10)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
}

// --- edit quantity ---

// With 2 free copies and a hold of 3, the pool allows anything up to 5.
func TestEditQuantity_CombinedPoolBound(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 2, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 3, Status: model.OrderPending})
	svc := newSvc(ledger, orders, nil, nil)

	err := svc.EditQuantity(ctx, student, 10, 6)
	require.Equal(t, fault.CodeInvalidQuantity, fault.Of(err))
	require.Equal(t, 3, orders.get(10).Quantity)
	require.Equal(t, 2, ledger.available(7))

	require.NoError(t, svc.EditQuantity(ctx, student, 10, 5))
	require.Equal(t, 5, orders.get(10).Quantity)
	require.Equal(t, 0, ledger.available(7))
}

func TestEditQuantity_ShrinkReturnsCopies(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 4, Status: model.OrderPending})
	svc := newSvc(ledger, orders, nil, nil)

	require.NoError(t, svc.EditQuantity(ctx, student, 10, 1))
	require.Equal(t, 1, orders.get(10).Quantity)
	require.Equal(t, 3, ledger.available(7))
}

func TestEditQuantity_SameQuantityIsNoOp(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	orders := newMemOrders(&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderPending})
	svc := newSvc(ledger, orders, nil, nil)

	require.NoError(t, svc.EditQuantity(ctx, student, 10, 2))
	require.Equal(t, 0, ledger.available(7))
}

func TestEditQuantity_Guards(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrders(
		&model.Order{ID: 10, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderPending},
		&model.Order{ID: 11, UserID: 1, BookID: 7, Quantity: 2, Status: model.OrderApproved},
	)
	svc := newSvc(newFakeLedger(7, 5, 9), orders, nil, nil)

	err := svc.EditQuantity(ctx, student, 10, 0)
	require.Equal(t, fault.CodeInvalidQuantity, fault.Of(err))

	err = svc.EditQuantity(ctx, otherStudent, 10, 1)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))

	err = svc.EditQuantity(ctx, student, 11, 1)
	require.Equal(t, fault.CodeInvalidState, fault.Of(err))

	err = svc.EditQuantity(ctx, student, 404, 1)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}

// --- checkout ---

func TestCheckout_ConvertsLinesWithoutTouchingLedger(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 1, 5)
	orders := newMemOrders()
	carts := &cartsMock{lines: []model.CartLine{
		{ID: 1, UserID: 1, BookID: 7, Quantity: 2},
		{ID: 2, UserID: 1, BookID: 8, Quantity: 1},
	}}
	svc := newSvc(ledger, orders, carts, nil)

	created, err := svc.Checkout(ctx, student, "cash")
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, o := range created {
		require.Equal(t, model.OrderPending, o.Status)
		require.Equal(t, model.PaymentUnpaid, o.PaymentStatus)
		require.NotNil(t, o.PaymentMethod)
		require.Equal(t, "cash", *o.PaymentMethod)
	}
	require.Equal(t, []int64{1, 2}, carts.deleted)
	// copies were reserved at add-to-cart time; checkout moves the claim only
	require.Equal(t, 1, ledger.available(7))
}

func TestCheckout_EmptyCart(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 1, 5), newMemOrders(), &cartsMock{}, nil)

	_, err := svc.Checkout(ctx, student, "cash")
	require.Equal(t, fault.CodeEmptyCart, fault.Of(err))
}

func TestCheckout_StudentOnly(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 1, 5), newMemOrders(), &cartsMock{}, nil)

	_, err := svc.Checkout(ctx, admin, "cash")
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
}

func TestCheckout_FailureReturnsNothing(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrders()
	carts := &cartsMock{
		lines:     []model.CartLine{{ID: 1, UserID: 1, BookID: 7, Quantity: 2}},
		deleteErr: errors.New("db down"),
	}
	svc := newSvc(newFakeLedger(7, 1, 5), orders, carts, nil)

	created, err := svc.Checkout(ctx, student, "cash")
	require.Error(t, err)
	require.Nil(t, created)
}

// --- listings ---

func TestListAll_AdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := newSvc(newFakeLedger(7, 1, 5), newMemOrders(), nil, nil)

	_, err := svc.ListAll(ctx, student)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))

	_, err = svc.ListAll(ctx, admin)
	require.NoError(t, err)
}

func TestTopBooks(t *testing.T) {
	ctx := context.Background()
	orders := newMemOrders()
	svc := newSvc(newFakeLedger(7, 1, 5), orders, nil, nil)

	_, err := svc.TopBooks(ctx, student)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))

	st, err := svc.TopBooks(ctx, admin)
	require.NoError(t, err)
	require.NotNil(t, st)
	require.Empty(t, st.Labels)
	require.Empty(t, st.Values)
}
