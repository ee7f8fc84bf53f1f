package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sortify/src/music"
)

// SqliteHistory is a SQLite implementation of the MatchHistory interface.
type SqliteHistory struct {
	db *sql.DB
}

var _ music.MatchHistory = (*SqliteHistory)(nil)

// NewSqliteHistory creates a new SqliteHistory.
func NewSqliteHistory(path string) (*SqliteHistory, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &SqliteHistory{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS matches (
			user_id TEXT NOT NULL,
			track_id TEXT NOT NULL,
			track_name TEXT NOT NULL,
			artists TEXT,
			playlist_id TEXT NOT NULL,
			playlist_name TEXT NOT NULL,
			matched_at TEXT NOT NULL,
			PRIMARY KEY (user_id, track_id)
		);

		CREATE INDEX IF NOT EXISTS idx_matches_user ON matches(user_id);
		CREATE INDEX IF NOT EXISTS idx_matches_playlist ON matches(playlist_id);
	`)
	return err
}

// MatchedTrackIDs returns the set of track ids with an active match record
// for the user.
func (d *SqliteHistory) MatchedTrackIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT track_id FROM matches WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var trackID string
		if err := rows.Scan(&trackID); err != nil {
			return nil, err
		}
		ids[trackID] = true
	}

	return ids, rows.Err()
}

// RecordMatches upserts one record per applied track. A re-match of a track
// replaces its previous record.
func (d *SqliteHistory) RecordMatches(ctx context.Context, userID string, records []*music.MatchRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, record := range records {
		artists, err := json.Marshal(record.Artists)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO matches (user_id, track_id, track_name, artists, playlist_id, playlist_name, matched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, userID, record.TrackID, record.TrackName, string(artists),
			record.PlaylistID, record.PlaylistName, record.MatchedAt.Format(time.RFC3339))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Debug("RecordMatches: stored match records", "userID", userID, "count", len(records))
	return nil
}

// DeleteMatch removes the record for a track, freeing it to be matched again.
func (d *SqliteHistory) DeleteMatch(ctx context.Context, userID, trackID string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM matches WHERE user_id = ? AND track_id = ?`, userID, trackID)
	return err
}

// ListMatches returns the user's match records, newest first.
func (d *SqliteHistory) ListMatches(ctx context.Context, userID string) ([]*music.MatchRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT track_id, track_name, artists, playlist_id, playlist_name, matched_at
		FROM matches
		WHERE user_id = ?
		ORDER BY matched_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*music.MatchRecord{}
	for rows.Next() {
		record := &music.MatchRecord{UserID: userID}
		var artists sql.NullString
		var matchedAt string
		if err := rows.Scan(&record.TrackID, &record.TrackName, &artists,
			&record.PlaylistID, &record.PlaylistName, &matchedAt); err != nil {
			return nil, err
		}
		if artists.Valid && artists.String != "" {
			if err := json.Unmarshal([]byte(artists.String), &record.Artists); err != nil {
				slog.Warn("ListMatches: malformed artists field", "trackID", record.TrackID, "error", err)
			}
		}
		record.MatchedAt, _ = time.Parse(time.RFC3339, matchedAt)
		records = append(records, record)
	}

	return records, rows.Err()
}

// Close closes the underlying database handle.
func (d *SqliteHistory) Close() error {
	return d.db.Close()
}
