// Package store persists track snapshots for the preview harness. The
// engine itself never touches storage; the harness re-reads a snapshot
// after every committed mutation.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tracklane/tracklane/internal/timeline"
)

var ErrItemNotFound = errors.New("item not found")

type Repository interface {
	ReplaceTracks(ctx context.Context, tracks []timeline.Track) error
	ListTracks(ctx context.Context) ([]timeline.Track, error)
	GetTrack(ctx context.Context, id string) (*timeline.Track, error)
	UpdateItemTimes(ctx context.Context, itemID string, start, end float64) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ReplaceTracks swaps the stored snapshot for the given one, preserving
// track and item order.
func (r *SQLiteRepository) ReplaceTracks(ctx context.Context, tracks []timeline.Track) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks"); err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339)
	for ti, track := range tracks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (id, name, kind, locked, visible, position, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, track.ID, track.Name, track.Kind, boolToInt(track.Locked), boolToInt(track.Visible), ti, now); err != nil {
			return fmt.Errorf("insert track %s: %w", track.ID, err)
		}

		for ii, item := range track.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO items (id, track_id, start_s, end_s, label, payload, position)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, item.ID, track.ID, item.Start, item.End, nullString(item.Label), nullString(item.Payload), ii); err != nil {
				return fmt.Errorf("insert item %s: %w", item.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) ListTracks(ctx context.Context) ([]timeline.Track, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, locked, visible FROM tracks ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []timeline.Track
	index := make(map[string]int)
	for rows.Next() {
		var t timeline.Track
		var locked, visible int
		if err := rows.Scan(&t.ID, &t.Name, &t.Kind, &locked, &visible); err != nil {
			return nil, err
		}
		t.Locked = locked == 1
		t.Visible = visible == 1
		index[t.ID] = len(tracks)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT id, track_id, start_s, end_s, label, payload
		FROM items ORDER BY track_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it timeline.TimedItem
		var label, payload sql.NullString
		if err := itemRows.Scan(&it.ID, &it.TrackID, &it.Start, &it.End, &label, &payload); err != nil {
			return nil, err
		}
		it.Label = label.String
		it.Payload = payload.String
		if ti, ok := index[it.TrackID]; ok {
			tracks[ti].Items = append(tracks[ti].Items, it)
		}
	}
	return tracks, itemRows.Err()
}

func (r *SQLiteRepository) GetTrack(ctx context.Context, id string) (*timeline.Track, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, locked, visible FROM tracks WHERE id = ?
	`, id)

	var t timeline.Track
	var locked, visible int
	err := row.Scan(&t.ID, &t.Name, &t.Kind, &locked, &visible)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Locked = locked == 1
	t.Visible = visible == 1

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, track_id, start_s, end_s, label, payload
		FROM items WHERE track_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it timeline.TimedItem
		var label, payload sql.NullString
		if err := rows.Scan(&it.ID, &it.TrackID, &it.Start, &it.End, &label, &payload); err != nil {
			return nil, err
		}
		it.Label = label.String
		it.Payload = payload.String
		t.Items = append(t.Items, it)
	}
	return &t, rows.Err()
}

// UpdateItemTimes persists a committed retiming.
func (r *SQLiteRepository) UpdateItemTimes(ctx context.Context, itemID string, start, end float64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE items SET start_s = ?, end_s = ? WHERE id = ?", start, end, itemID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
