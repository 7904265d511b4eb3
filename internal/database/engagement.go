package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/kevindufraisse/linkhub/internal/model"
)

// --- Comment Methods ---

// AddComment appends a comment to the engagement log.
func (db *DB) AddComment(postText, commentText, postURN string) error {
	_, err := db.conn.Exec(
		"INSERT INTO comments (post_text, comment_text, post_urn, created_at) VALUES (?, ?, ?, ?)",
		postText, commentText, postURN, now())
	return err
}

// RecentComments returns the latest comments, newest first.
func (db *DB) RecentComments(limit int) ([]model.Comment, error) {
	var comments []model.Comment
	err := db.conn.Select(&comments, "SELECT * FROM comments ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// --- Statistic Methods ---

// IncrementStat bumps the counter for the given day, creating the row with
// count 1 on the first qualifying action of that day.
func (db *DB) IncrementStat(day string) error {
	_, err := db.conn.Exec(
		"INSERT INTO stats (date, count) VALUES (?, 1) ON CONFLICT(date) DO UPDATE SET count = count + 1",
		day)
	return err
}

// StatCount returns the counter for the given day, 0 if no row exists.
func (db *DB) StatCount(day string) (int, error) {
	var c int
	err := db.conn.Get(&c, "SELECT count FROM stats WHERE date = ?", day)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c, nil
}

// Streak walks backward from today one calendar day at a time and counts
// consecutive days with at least one qualifying action. A missing row or an
// explicit zero count stops the walk, so a day without engagement ends the
// streak there; today itself only counts once it has a qualifying action.
func (db *DB) Streak(today time.Time) (int, error) {
	streak := 0
	day := today.UTC()
	for {
		var count int
		err := db.conn.Get(&count, "SELECT count FROM stats WHERE date = ?", DayKey(day))
		if errors.Is(err, sql.ErrNoRows) {
			return streak, nil
		}
		if err != nil {
			return 0, err
		}
		if count <= 0 {
			return streak, nil
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// DailyStats returns the most recent rows, date descending, raw. Days
// without a row are not filled in.
func (db *DB) DailyStats(limit int) ([]model.DailyStat, error) {
	var stats []model.DailyStat
	err := db.conn.Select(&stats, "SELECT * FROM stats ORDER BY date DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []model.DailyStat{}
	}
	return stats, nil
}
