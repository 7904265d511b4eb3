// Package model defines shared data structures.
package model

// Feed represents a curated, ordered, optionally private list of profiles.
type Feed struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsPrivate      bool   `json:"is_private"`
	Position       int    `json:"position"`
	IsInOnboarding bool   `json:"is_in_onboarding"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// FeedItem represents a single profile reference within a feed.
type FeedItem struct {
	ID         string `json:"id" db:"id"`
	FeedID     string `json:"feed_id" db:"feed_id"`
	LinkedInID string `json:"linkedin_id" db:"linkedin_id"`
	Name       string `json:"name" db:"name"`
	Photo      string `json:"photo" db:"photo"`
	URL        string `json:"url" db:"url"`
	Headline   string `json:"headline" db:"headline"`
	CreatedAt  string `json:"created_at" db:"created_at"`
}

// Profile carries the display attributes of a profile being attached to a feed.
type Profile struct {
	LinkedInID string `json:"linkedin_id"`
	Name       string `json:"name"`
	Photo      string `json:"photo"`
	URL        string `json:"url"`
	Headline   string `json:"headline"`
}

// FeedWithItems is a feed annotated with its items, newest first.
type FeedWithItems struct {
	Feed
	Items []FeedItem `json:"items"`
}

// FeedListing is the feed listing view. The caller is always the
// administrator of every feed; there is no multi-user access model.
type FeedListing struct {
	FeedWithItems
	IsAdmin bool `json:"is_admin"`
}

// FeedUpdate is a partial field update for a feed. Nil fields are left
// untouched.
type FeedUpdate struct {
	Name      *string `json:"name"`
	IsPrivate *bool   `json:"is_private"`
	Position  *int    `json:"position"`
}

// ListDescriptor is one entry of a list synchronization request.
type ListDescriptor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
	Position  int    `json:"position"`
}

// ReorderEntry assigns a position to a feed.
type ReorderEntry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// Comment is one recorded engagement. The comment log is append-only.
type Comment struct {
	ID          int64  `json:"id" db:"id"`
	PostText    string `json:"post_text" db:"post_text"`
	CommentText string `json:"comment_text" db:"comment_text"`
	PostURN     string `json:"post_urn" db:"post_urn"`
	CreatedAt   string `json:"created_at" db:"created_at"`
}

// DailyStat counts qualifying engagement actions for one calendar day.
type DailyStat struct {
	Date  string `json:"date" db:"date"`
	Count int    `json:"count" db:"count"`
}

// PostProfile is the profile sub-structure of an exported post view.
type PostProfile struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}

// Post is the post-like view the aggregate export flattens every feed item
// into, for bulk processing by the extension.
type Post struct {
	ID             string      `json:"id"`
	Content        string      `json:"content"`
	Date           string      `json:"date"`
	Profile        PostProfile `json:"profile"`
	ImageURL       *string     `json:"imageUrl"`
	ReactionCount  int         `json:"reactionCount"`
	CommentCount   int         `json:"commentCount"`
	VideoURL       *string     `json:"videoUrl"`
	CarouselPDFURL *string     `json:"carouselPdfUrl"`
}
