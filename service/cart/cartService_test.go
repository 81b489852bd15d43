package cartsvc

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	inventoryrepo "campusbooks/repository/inventory"
	"campusbooks/model"
	"campusbooks/service/fault"
)

type txStub struct{}

func (txStub) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

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

func (l *fakeLedger) available(bookID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avail[bookID]
}

// memCart merges lines per (user, book) like the upsert does.
type memCart struct {
	mu     sync.Mutex
	nextID int64
	lines  map[int64]*model.CartLine
}

func newMemCart(seed ...*model.CartLine) *memCart {
	m := &memCart{lines: map[int64]*model.CartLine{}, nextID: 100}
	for _, line := range seed {
		m.lines[line.ID] = line
	}
	return m
}

func (m *memCart) Upsert(ctx context.Context, tx *sql.Tx, userID, bookID int64, qty int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, line := range m.lines {
		if line.UserID == userID && line.BookID == bookID {
			line.Quantity += qty
			return line.ID, nil
		}
	}
	m.nextID++
	m.lines[m.nextID] = &model.CartLine{ID: m.nextID, UserID: userID, BookID: bookID, Quantity: qty}
	return m.nextID, nil
}

func (m *memCart) LineForUpdate(ctx context.Context, tx *sql.Tx, lineID int64) (*model.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.lines[lineID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *line
	return &cp, nil
}

func (m *memCart) DeleteLine(ctx context.Context, tx *sql.Tx, lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lines, lineID)
	return nil
}

func (m *memCart) ListByUser(ctx context.Context, userID int64) ([]Row, error) { return nil, nil }

func (m *memCart) quantity(lineID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line, ok := m.lines[lineID]; ok {
		return line.Quantity
	}
	return 0
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

func TestAdd_ReservesAndMergesLine(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 5, 5)
	cart := newMemCart()
	svc := New(txStub{}, ledger, cart, &booksMock{})

	id1, err := svc.Add(ctx, student, 7, 2)
	require.NoError(t, err)
	require.Equal(t, 3, ledger.available(7))

	// same book again: the line merges, the reservation stacks
	id2, err := svc.Add(ctx, student, 7, 1)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.Equal(t, 3, cart.quantity(id1))
	require.Equal(t, 2, ledger.available(7))
}

func TestAdd_Insufficient(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 1, 5)
	cart := newMemCart()
	svc := New(txStub{}, ledger, cart, &booksMock{})

	_, err := svc.Add(ctx, student, 7, 2)
	require.Equal(t, fault.CodeInsufficientInventory, fault.Of(err))
	require.Equal(t, 1, ledger.available(7))
	require.Equal(t, 0, cart.quantity(101))
}

func TestAdd_Guards(t *testing.T) {
	ctx := context.Background()
	svc := New(txStub{}, newFakeLedger(7, 5, 5), newMemCart(), &booksMock{})

	_, err := svc.Add(ctx, student, 7, 0)
	require.Equal(t, fault.CodeInvalidQuantity, fault.Of(err))

	_, err = svc.Add(ctx, admin, 7, 1)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
}

func TestAdd_BookMissing(t *testing.T) {
	ctx := context.Background()
	books := &booksMock{detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
		return nil, sql.ErrNoRows
	}}
	svc := New(txStub{}, newFakeLedger(7, 5, 5), newMemCart(), books)

	_, err := svc.Add(ctx, student, 99, 1)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}

func TestAdd_NoOversell(t *testing.T) {
	ctx := context.Background()
	const copies = 3
	ledger := newFakeLedger(7, copies, copies)
	svc := New(txStub{}, ledger, newMemCart(), &booksMock{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			actor := model.Actor{ID: uid, Role: model.RoleStudent}
			if _, err := svc.Add(ctx, actor, 7, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(int64(i + 1))
	}
	wg.Wait()

	require.Equal(t, copies, succeeded)
	require.Equal(t, 0, ledger.available(7))
}

func TestRemove_ReleasesAndDeletes(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	cart := newMemCart(&model.CartLine{ID: 10, UserID: 1, BookID: 7, Quantity: 3})
	svc := New(txStub{}, ledger, cart, &booksMock{})

	require.NoError(t, svc.Remove(ctx, student, 10))
	require.Equal(t, 3, ledger.available(7))
	require.Equal(t, 0, cart.quantity(10))
}

func TestRemove_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger(7, 0, 5)
	cart := newMemCart(&model.CartLine{ID: 10, UserID: 1, BookID: 7, Quantity: 3})
	svc := New(txStub{}, ledger, cart, &booksMock{})

	err := svc.Remove(ctx, otherStudent, 10)
	require.Equal(t, fault.CodeUnauthorized, fault.Of(err))
	require.Equal(t, 0, ledger.available(7))
	require.Equal(t, 3, cart.quantity(10))
}

func TestRemove_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := New(txStub{}, newFakeLedger(7, 0, 5), newMemCart(), &booksMock{})

	err := svc.Remove(ctx, student, 404)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}
