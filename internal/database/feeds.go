package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/kevindufraisse/linkhub/internal/ident"
	"github.com/kevindufraisse/linkhub/internal/model"
)

// ErrFeedNotFound is returned when an operation targets a feed that does
// not exist.
var ErrFeedNotFound = errors.New("feed not found")

// feedRow mirrors the feeds table. The 0/1 flag columns are a storage
// encoding detail; the model exposes them as booleans.
type feedRow struct {
	ID             string `db:"id"`
	Name           string `db:"name"`
	IsPrivate      int    `db:"is_private"`
	Position       int    `db:"position"`
	IsInOnboarding int    `db:"is_in_onboarding"`
	CreatedAt      string `db:"created_at"`
	UpdatedAt      string `db:"updated_at"`
}

func (r feedRow) toModel() model.Feed {
	return model.Feed{
		ID:             r.ID,
		Name:           r.Name,
		IsPrivate:      r.IsPrivate != 0,
		Position:       r.Position,
		IsInOnboarding: r.IsInOnboarding != 0,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --- Feed Methods ---

// ListFeeds returns all feeds ordered by position, each with its items
// newest first. A non-empty search filters by case-insensitive substring
// match on the name.
func (db *DB) ListFeeds(search string) ([]model.FeedWithItems, error) {
	var rows []feedRow
	var err error
	if search != "" {
		err = db.conn.Select(&rows, "SELECT * FROM feeds WHERE name LIKE ? ORDER BY position", "%"+search+"%")
	} else {
		err = db.conn.Select(&rows, "SELECT * FROM feeds ORDER BY position")
	}
	if err != nil {
		return nil, err
	}
	out := make([]model.FeedWithItems, 0, len(rows))
	for _, r := range rows {
		items, err := db.itemsForFeed(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.FeedWithItems{Feed: r.toModel(), Items: items})
	}
	return out, nil
}

// CreateFeed adds a new feed at the end of the current order.
func (db *DB) CreateFeed(name string, isPrivate bool) (*model.Feed, error) {
	if name == "" {
		name = "New List"
	}
	var pos int
	if err := db.conn.Get(&pos, "SELECT COUNT(*) FROM feeds"); err != nil {
		return nil, err
	}
	id := ident.New()
	ts := now()
	_, err := db.conn.Exec(
		"INSERT INTO feeds (id, name, is_private, position, is_in_onboarding, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)",
		id, name, boolToInt(isPrivate), pos, ts, ts)
	if err != nil {
		return nil, err
	}
	return db.GetFeed(id)
}

// GetFeed returns a feed by id, or ErrFeedNotFound.
func (db *DB) GetFeed(id string) (*model.Feed, error) {
	var r feedRow
	err := db.conn.Get(&r, "SELECT * FROM feeds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedNotFound
	}
	if err != nil {
		return nil, err
	}
	f := r.toModel()
	return &f, nil
}

func (db *DB) feedExists(id string) (bool, error) {
	var found string
	err := db.conn.Get(&found, "SELECT id FROM feeds WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateFeed applies the non-nil fields of upd. Updating a feed that does
// not exist is a no-op, matching the transport contract.
func (db *DB) UpdateFeed(id string, upd model.FeedUpdate) error {
	if upd.Name != nil {
		if _, err := db.conn.Exec("UPDATE feeds SET name = ?, updated_at = ? WHERE id = ?", *upd.Name, now(), id); err != nil {
			return err
		}
	}
	if upd.IsPrivate != nil {
		if _, err := db.conn.Exec("UPDATE feeds SET is_private = ?, updated_at = ? WHERE id = ?", boolToInt(*upd.IsPrivate), now(), id); err != nil {
			return err
		}
	}
	if upd.Position != nil {
		if _, err := db.conn.Exec("UPDATE feeds SET position = ?, updated_at = ? WHERE id = ?", *upd.Position, now(), id); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFeed removes a feed; the schema cascades the delete to its items.
func (db *DB) DeleteFeed(id string) error {
	_, err := db.conn.Exec("DELETE FROM feeds WHERE id = ?", id)
	return err
}

// ReorderFeeds sets the position of each listed feed, in input order.
func (db *DB) ReorderFeeds(entries []model.ReorderEntry) error {
	for _, e := range entries {
		if _, err := db.conn.Exec("UPDATE feeds SET position = ? WHERE id = ?", e.Position, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// SyncLists reconciles the supplied descriptors against stored feeds:
// upsert by id, in input order, never deleting feeds absent from the input.
// It returns the full resulting state.
func (db *DB) SyncLists(lists []model.ListDescriptor) ([]model.FeedWithItems, error) {
	for _, l := range lists {
		exists, err := db.feedExists(l.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			_, err = db.conn.Exec(
				"UPDATE feeds SET name = ?, is_private = ?, position = ?, updated_at = ? WHERE id = ?",
				l.Name, boolToInt(l.IsPrivate), l.Position, now(), l.ID)
		} else {
			id := l.ID
			if id == "" {
				id = ident.New()
			}
			ts := now()
			_, err = db.conn.Exec(
				"INSERT INTO feeds (id, name, is_private, position, is_in_onboarding, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)",
				id, l.Name, boolToInt(l.IsPrivate), l.Position, ts, ts)
		}
		if err != nil {
			return nil, fmt.Errorf("sync list %q: %w", l.ID, err)
		}
	}
	return db.ListFeeds("")
}

// --- Item Methods ---

func (db *DB) itemsForFeed(feedID string) ([]model.FeedItem, error) {
	var items []model.FeedItem
	err := db.conn.Select(&items, "SELECT * FROM feed_items WHERE feed_id = ? ORDER BY created_at DESC", feedID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.FeedItem{}
	}
	return items, nil
}

// AddItem inserts a new item into the feed and returns its generated id.
// Returns ErrFeedNotFound if the feed does not exist.
func (db *DB) AddItem(feedID string, p model.Profile) (string, error) {
	exists, err := db.feedExists(feedID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrFeedNotFound
	}
	id := ident.New()
	if err := db.insertItem(id, feedID, p); err != nil {
		return "", fmt.Errorf("add item: %w", err)
	}
	return id, nil
}

func (db *DB) insertItem(id, feedID string, p model.Profile) error {
	_, err := db.conn.Exec(
		"INSERT INTO feed_items (id, feed_id, linkedin_id, name, photo, url, headline, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, feedID, p.LinkedInID, p.Name, p.Photo, p.URL, p.Headline, now())
	return err
}

// RemoveItem deletes any item in the feed whose id or external profile id
// matches ref. Removing a non-matching ref is a no-op.
func (db *DB) RemoveItem(feedID, ref string) error {
	_, err := db.conn.Exec("DELETE FROM feed_items WHERE (id = ? OR linkedin_id = ?) AND feed_id = ?", ref, ref, feedID)
	return err
}

// AddItemToFeeds inserts one new item per target feed that exists; missing
// targets are skipped. Returns the number of items inserted.
func (db *DB) AddItemToFeeds(feedIDs []string, p model.Profile) (int, error) {
	added := 0
	for _, feedID := range feedIDs {
		exists, err := db.feedExists(feedID)
		if err != nil {
			return added, err
		}
		if !exists {
			continue
		}
		if err := db.insertItem(ident.New(), feedID, p); err != nil {
			return added, fmt.Errorf("bulk add to %q: %w", feedID, err)
		}
		added++
	}
	return added, nil
}

// AddItemsToFeed inserts one new item per profile into the feed. The whole
// batch is a no-op when the feed does not exist.
func (db *DB) AddItemsToFeed(feedID string, profiles []model.Profile) (int, error) {
	exists, err := db.feedExists(feedID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	for i, p := range profiles {
		if err := db.insertItem(ident.New(), feedID, p); err != nil {
			return i, fmt.Errorf("bulk add to %q: %w", feedID, err)
		}
	}
	return len(profiles), nil
}

// AllItems returns every item across every feed, newest first.
func (db *DB) AllItems() ([]model.FeedItem, error) {
	var items []model.FeedItem
	err := db.conn.Select(&items, "SELECT * FROM feed_items ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return lo.Ternary(items != nil, items, []model.FeedItem{}), nil
}

// CountItems returns the total item count across all feeds.
func (db *DB) CountItems() (int, error) {
	var c int
	err := db.conn.Get(&c, "SELECT COUNT(*) FROM feed_items")
	return c, err
}
