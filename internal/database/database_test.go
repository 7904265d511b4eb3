package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevindufraisse/linkhub/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func addItem(t *testing.T, db *DB, feedID string, p model.Profile) string {
	t.Helper()
	id, err := db.AddItem(feedID, p)
	require.NoError(t, err)
	// created_at is the sort key; keep successive inserts distinguishable.
	time.Sleep(2 * time.Millisecond)
	return id
}

func TestCreateFeedDefaults(t *testing.T) {
	db := newTestDB(t)

	f1, err := db.CreateFeed("", false)
	require.NoError(t, err)
	assert.Equal(t, "New List", f1.Name)
	assert.Equal(t, 0, f1.Position)
	assert.False(t, f1.IsPrivate)
	assert.False(t, f1.IsInOnboarding)
	assert.NotEmpty(t, f1.CreatedAt)

	f2, err := db.CreateFeed("Prospects", true)
	require.NoError(t, err)
	assert.Equal(t, 1, f2.Position)
	assert.True(t, f2.IsPrivate)
}

func TestGetFeedNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetFeed("nope")
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestUpdateFeedPartial(t *testing.T) {
	db := newTestDB(t)
	f, err := db.CreateFeed("VIPs", true)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	name := "Founders"
	require.NoError(t, db.UpdateFeed(f.ID, model.FeedUpdate{Name: &name}))

	got, err := db.GetFeed(f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Founders", got.Name)
	assert.True(t, got.IsPrivate, "untouched field must survive a partial update")
	assert.NotEqual(t, f.UpdatedAt, got.UpdatedAt, "updated_at must refresh")
	assert.Equal(t, f.CreatedAt, got.CreatedAt)

	// Updating a missing feed is a no-op, not an error.
	require.NoError(t, db.UpdateFeed("nope", model.FeedUpdate{Name: &name}))
}

func TestDeleteFeedCascades(t *testing.T) {
	db := newTestDB(t)
	f, err := db.CreateFeed("VIPs", false)
	require.NoError(t, err)
	addItem(t, db, f.ID, model.Profile{Name: "Ana"})
	addItem(t, db, f.ID, model.Profile{Name: "Bob"})

	other, err := db.CreateFeed("Keep", false)
	require.NoError(t, err)
	addItem(t, db, other.ID, model.Profile{Name: "Cleo"})

	require.NoError(t, db.DeleteFeed(f.ID))

	_, err = db.GetFeed(f.ID)
	assert.ErrorIs(t, err, ErrFeedNotFound)

	count, err := db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the other feed's item survives")

	items, err := db.AllItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cleo", items[0].Name)
}

func TestReorderFeeds(t *testing.T) {
	db := newTestDB(t)
	a, err := db.CreateFeed("A", false)
	require.NoError(t, err)
	b, err := db.CreateFeed("B", false)
	require.NoError(t, err)

	require.NoError(t, db.ReorderFeeds([]model.ReorderEntry{
		{ID: a.ID, Position: 5},
		{ID: b.ID, Position: 2},
	}))

	feeds, err := db.ListFeeds("")
	require.NoError(t, err)
	require.Len(t, feeds, 2)
	assert.Equal(t, b.ID, feeds[0].ID)
	assert.Equal(t, 2, feeds[0].Position)
	assert.Equal(t, a.ID, feeds[1].ID)
	assert.Equal(t, 5, feeds[1].Position)
}

func TestSyncListsUpsert(t *testing.T) {
	db := newTestDB(t)
	existing, err := db.CreateFeed("Old name", false)
	require.NoError(t, err)
	untouched, err := db.CreateFeed("Untouched", false)
	require.NoError(t, err)

	lists := []model.ListDescriptor{
		{ID: existing.ID, Name: "New name", IsPrivate: true, Position: 3},
		{ID: "ext_1", Name: "From client", Position: 2},
		{Name: "No id supplied", Position: 4},
	}

	feeds, err := db.SyncLists(lists)
	require.NoError(t, err)
	require.Len(t, feeds, 4)

	byID := map[string]model.FeedWithItems{}
	for _, f := range feeds {
		byID[f.ID] = f
	}

	got := byID[existing.ID]
	assert.Equal(t, "New name", got.Name)
	assert.True(t, got.IsPrivate)
	assert.Equal(t, 3, got.Position)

	assert.Equal(t, "From client", byID["ext_1"].Name)
	assert.Equal(t, "Untouched", byID[untouched.ID].Name, "feeds absent from the input are left alone")

	// Result is ordered by position ascending.
	for i := 1; i < len(feeds); i++ {
		assert.LessOrEqual(t, feeds[i-1].Position, feeds[i].Position)
	}
}

func TestSyncListsIdempotent(t *testing.T) {
	db := newTestDB(t)
	lists := []model.ListDescriptor{
		{ID: "ext_1", Name: "Alpha", Position: 1},
		{ID: "ext_2", Name: "Beta", IsPrivate: true, Position: 2},
	}

	first, err := db.SyncLists(lists)
	require.NoError(t, err)
	second, err := db.SyncLists(lists)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].IsPrivate, second[i].IsPrivate)
		assert.Equal(t, first[i].Position, second[i].Position)
	}
}

func TestSyncListsLaterEntryWins(t *testing.T) {
	db := newTestDB(t)
	feeds, err := db.SyncLists([]model.ListDescriptor{
		{ID: "ext_1", Name: "First", Position: 1},
		{ID: "ext_1", Name: "Second", Position: 7},
	})
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "Second", feeds[0].Name)
	assert.Equal(t, 7, feeds[0].Position)
}

func TestAddItemFeedNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.AddItem("nope", model.Profile{Name: "Ana"})
	assert.ErrorIs(t, err, ErrFeedNotFound)
}

func TestRemoveItemByEitherKey(t *testing.T) {
	db := newTestDB(t)
	f, err := db.CreateFeed("VIPs", false)
	require.NoError(t, err)

	id := addItem(t, db, f.ID, model.Profile{Name: "Ana", LinkedInID: "abc"})
	addItem(t, db, f.ID, model.Profile{Name: "Bob", LinkedInID: "def"})

	// Remove by external profile id.
	require.NoError(t, db.RemoveItem(f.ID, "abc"))
	count, err := db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Removing a non-existent ref is a no-op.
	require.NoError(t, db.RemoveItem(f.ID, "abc"))
	require.NoError(t, db.RemoveItem(f.ID, id))
	count, err = db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Remove by item id.
	items, err := db.AllItems()
	require.NoError(t, err)
	require.NoError(t, db.RemoveItem(f.ID, items[0].ID))
	count, err = db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRemoveItemScopedToFeed(t *testing.T) {
	db := newTestDB(t)
	f1, err := db.CreateFeed("A", false)
	require.NoError(t, err)
	f2, err := db.CreateFeed("B", false)
	require.NoError(t, err)
	addItem(t, db, f1.ID, model.Profile{LinkedInID: "abc"})
	addItem(t, db, f2.ID, model.Profile{LinkedInID: "abc"})

	require.NoError(t, db.RemoveItem(f1.ID, "abc"))
	count, err := db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "the same profile in another feed stays")
}

func TestAddItemToFeedsSkipsMissing(t *testing.T) {
	db := newTestDB(t)
	f1, err := db.CreateFeed("A", false)
	require.NoError(t, err)
	f2, err := db.CreateFeed("B", false)
	require.NoError(t, err)

	added, err := db.AddItemToFeeds([]string{f1.ID, "nope", f2.ID}, model.Profile{Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	count, err := db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddItemsToFeed(t *testing.T) {
	db := newTestDB(t)
	f, err := db.CreateFeed("A", false)
	require.NoError(t, err)

	profiles := []model.Profile{{Name: "Ana"}, {Name: "Bob"}, {Name: "Cleo"}}
	added, err := db.AddItemsToFeed(f.ID, profiles)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	// Missing feed makes the whole batch a no-op.
	added, err = db.AddItemsToFeed("nope", profiles)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	count, err := db.CountItems()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListFeedsOrdering(t *testing.T) {
	db := newTestDB(t)
	f, err := db.CreateFeed("Only", false)
	require.NoError(t, err)
	addItem(t, db, f.ID, model.Profile{Name: "older"})
	addItem(t, db, f.ID, model.Profile{Name: "newer"})

	feeds, err := db.ListFeeds("")
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	require.Len(t, feeds[0].Items, 2)
	assert.Equal(t, "newer", feeds[0].Items[0].Name, "items come newest first")
	assert.Equal(t, "older", feeds[0].Items[1].Name)
}

func TestListFeedsSearch(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateFeed("Founders France", false)
	require.NoError(t, err)
	_, err = db.CreateFeed("Investors", false)
	require.NoError(t, err)

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"no filter", "", 2},
		{"exact substring", "Founders", 1},
		{"case insensitive", "founders", 1},
		{"inner substring", "vest", 1},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feeds, err := db.ListFeeds(tt.search)
			require.NoError(t, err)
			assert.Len(t, feeds, tt.want)
		})
	}
}

func TestListFeedsEmptyItemsNotNull(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CreateFeed("Empty", false)
	require.NoError(t, err)

	feeds, err := db.ListFeeds("")
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.NotNil(t, feeds[0].Items, "items must serialize as [], not null")
}
