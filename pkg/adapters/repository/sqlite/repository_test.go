package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedProfile(t *testing.T, repo *SQLiteRepository, slug string) *domain.Profile {
	t.Helper()
	now := time.Now().UTC()
	p := &domain.Profile{ID: uuid.NewString(), Slug: slug, DisplayName: slug, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateProfile(context.Background(), p))
	return p
}

func insertLink(t *testing.T, repo *SQLiteRepository, ownerID, title string) *domain.Link {
	t.Helper()
	now := time.Now().UTC()
	l := &domain.Link{
		OwnerID:   ownerID,
		Title:     title,
		URL:       "https://" + title + ".example.com",
		Icon:      domain.PredefinedIcon("globe"),
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Insert(context.Background(), l))
	return l
}

func TestInsertAssignsIDAndNextOrder(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	other := seedProfile(t, repo, "bob")

	a := insertLink(t, repo, owner.ID, "a")
	b := insertLink(t, repo, owner.ID, "b")
	x := insertLink(t, repo, other.ID, "x")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)
	assert.Equal(t, 0, x.Order, "orders are per owner")

	// A gap left by a delete does not lower the next order.
	require.NoError(t, repo.Remove(context.Background(), b.ID))
	c := insertLink(t, repo, owner.ID, "c")
	assert.Equal(t, 1, c.Order)

	require.NoError(t, repo.PatchMany(context.Background(), owner.ID, []domain.OrderPatch{{ID: a.ID, Order: 5}})[0])
	d := insertLink(t, repo, owner.ID, "d")
	assert.Equal(t, 6, d.Order)
}

func TestFetchAllSortedByOrder(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	a := insertLink(t, repo, owner.ID, "a")
	b := insertLink(t, repo, owner.ID, "b")
	c := insertLink(t, repo, owner.ID, "c")

	errs := repo.PatchMany(context.Background(), owner.ID, []domain.OrderPatch{
		{ID: c.ID, Order: 0}, {ID: a.ID, Order: 1}, {ID: b.ID, Order: 2},
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	links, err := repo.FetchAll(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{links[0].ID, links[1].ID, links[2].ID})
	assert.Equal(t, domain.PredefinedIcon("globe"), links[0].Icon)
	assert.True(t, links[0].Enabled)

	empty, err := repo.FetchAll(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPatchManyIgnoresForeignIDs(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	other := seedProfile(t, repo, "bob")
	mine := insertLink(t, repo, owner.ID, "mine")
	theirs := insertLink(t, repo, other.ID, "theirs")

	errs := repo.PatchMany(context.Background(), owner.ID, []domain.OrderPatch{
		{ID: theirs.ID, Order: 7}, {ID: mine.ID, Order: 3},
	})
	assert.Equal(t, []error{nil, nil}, errs)

	got, err := repo.Get(context.Background(), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Order)

	got, err = repo.Get(context.Background(), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Order)
}

func TestPatchMany_ReportsPerWriteFailure(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	a := insertLink(t, repo, owner.ID, "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	errs := repo.PatchMany(ctx, owner.ID, []domain.OrderPatch{{ID: a.ID, Order: 1}})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrPersistence)
}

func TestPatchAndRemove(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	a := insertLink(t, repo, owner.ID, "a")

	title := "Renamed"
	disabled := false
	icon := domain.CustomIcon("https://cdn.example.com/a.png")
	got, err := repo.Patch(context.Background(), a.ID, domain.LinkPatch{Title: &title, Enabled: &disabled, Icon: &icon})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.False(t, got.Enabled)
	assert.Equal(t, icon, got.Icon)
	assert.Equal(t, a.URL, got.URL)
	assert.Equal(t, a.Order, got.Order)

	_, err = repo.Patch(context.Background(), "missing", domain.LinkPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Remove(context.Background(), a.ID))
	_, err = repo.Get(context.Background(), a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(context.Background(), a.ID), domain.ErrNotFound)
}

func TestRecordVisitCountsOnce(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	a := insertLink(t, repo, owner.ID, "a")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.RecordVisit(context.Background(), &domain.Visit{
			LinkID:    a.ID,
			Referer:   "https://twitter.com",
			CreatedAt: time.Now().UTC(),
		}))
	}
	require.NoError(t, repo.RecordVisit(context.Background(), &domain.Visit{LinkID: a.ID, CreatedAt: time.Now().UTC()}))

	got, err := repo.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ClickCount)

	stats, err := repo.GetLinkStats(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalClicks)
	assert.Equal(t, int64(3), stats.Referrers["https://twitter.com"])
	assert.Equal(t, int64(1), stats.Referrers["Direct"])
	require.Len(t, stats.DailyClicks, 1)
	assert.Equal(t, int64(4), stats.DailyClicks[0].Count)

	err = repo.RecordVisit(context.Background(), &domain.Visit{LinkID: "missing", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfiles(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedProfile(t, repo, "alice")
	seedProfile(t, repo, "bob")
	insertLink(t, repo, alice.ID, "a")

	got, err := repo.GetProfileBySlug(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.GetProfileBySlug(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dup := &domain.Profile{ID: uuid.NewString(), Slug: "alice"}
	assert.ErrorIs(t, repo.CreateProfile(ctx, dup), domain.ErrPersistence)

	got.Bio = "hello"
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.UpdateProfile(ctx, got))
	got, err = repo.GetProfile(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)

	list, err := repo.ListProfiles(ctx, 10, 0, "ali")
	require.NoError(t, err)
	require.Len(t, list, 1)
	count, err := repo.CountProfiles(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.DeleteProfile(ctx, alice.ID))
	links, err := repo.FetchAll(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.ErrorIs(t, repo.DeleteProfile(ctx, alice.ID), domain.ErrNotFound)
}

func TestGetLinkStats_StoreFailure(t *testing.T) {
	repo := newTestRepo(t)
	owner := seedProfile(t, repo, "alice")
	a := insertLink(t, repo, owner.ID, "a")
	require.NoError(t, repo.RecordVisit(context.Background(), &domain.Visit{LinkID: a.ID, CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Close())

	stats, err := repo.GetLinkStats(context.Background(), a.ID)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
