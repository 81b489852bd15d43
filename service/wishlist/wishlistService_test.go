package wishlistsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"campusbooks/model"
	"campusbooks/service/fault"
)

type repoMock struct {
	marks map[int64]map[int64]bool
}

func newRepoMock() *repoMock { return &repoMock{marks: map[int64]map[int64]bool{}} }

func (m *repoMock) Toggle(ctx context.Context, userID, bookID int64) (bool, error) {
	if m.marks[userID] == nil {
		m.marks[userID] = map[int64]bool{}
	}
	m.marks[userID][bookID] = !m.marks[userID][bookID]
	return m.marks[userID][bookID], nil
}

func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]model.Book, error) {
	var out []model.Book
	for bookID, on := range m.marks[userID] {
		if on {
			out = append(out, model.Book{ID: bookID})
		}
	}
	return out, nil
}

type booksMock struct {
	missing bool
}

func (b *booksMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	if b.missing {
		return nil, sql.ErrNoRows
	}
	return &model.Book{ID: id}, nil
}

var student = model.Actor{ID: 1, Role: model.RoleStudent}

func TestToggle_Flips(t *testing.T) {
	ctx := context.Background()
	svc := New(newRepoMock(), &booksMock{})

	on, err := svc.Toggle(ctx, student, 7)
	require.NoError(t, err)
	require.True(t, on)

	on, err = svc.Toggle(ctx, student, 7)
	require.NoError(t, err)
	require.False(t, on)
}

func TestToggle_BookMissing(t *testing.T) {
	ctx := context.Background()
	svc := New(newRepoMock(), &booksMock{missing: true})

	_, err := svc.Toggle(ctx, student, 99)
	require.Equal(t, fault.CodeNotFound, fault.Of(err))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := newRepoMock()
	svc := New(repo, &booksMock{})

	_, err := svc.Toggle(ctx, student, 7)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, student, 8)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, student, 8)
	require.NoError(t, err)

	books, err := svc.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, int64(7), books[0].ID)
}
