// Package database provides storage for the LinkHub backend.
package database

import (
	"time"

	"github.com/kevindufraisse/linkhub/internal/model"
)

// Store defines the interface for database operations.
type Store interface {
	Close() error

	// Feed operations
	ListFeeds(search string) ([]model.FeedWithItems, error)
	CreateFeed(name string, isPrivate bool) (*model.Feed, error)
	GetFeed(id string) (*model.Feed, error)
	UpdateFeed(id string, upd model.FeedUpdate) error
	DeleteFeed(id string) error
	ReorderFeeds(entries []model.ReorderEntry) error
	SyncLists(lists []model.ListDescriptor) ([]model.FeedWithItems, error)

	// Membership operations
	AddItem(feedID string, p model.Profile) (string, error)
	RemoveItem(feedID, ref string) error
	AddItemToFeeds(feedIDs []string, p model.Profile) (int, error)
	AddItemsToFeed(feedID string, profiles []model.Profile) (int, error)
	AllItems() ([]model.FeedItem, error)
	CountItems() (int, error)

	// Engagement operations
	AddComment(postText, commentText, postURN string) error
	RecentComments(limit int) ([]model.Comment, error)
	IncrementStat(day string) error
	StatCount(day string) (int, error)
	Streak(today time.Time) (int, error)
	DailyStats(limit int) ([]model.DailyStat, error)
}

var _ Store = (*DB)(nil)
