package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

const tagColumns = `id, title, note_id, last_used_at, created_at, updated_at`

// scanTag scans one tag row. GroupIDs are attached separately.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		lastUsed  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&t.ID, &t.Title, &t.NoteID, &lastUsed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if lastUsed.Valid && lastUsed.String != "" {
		ts, err := parseTime(lastUsed.String)
		if err != nil {
			return nil, err
		}
		t.LastUsedAt = &ts
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag and its group memberships.
// Returns store.ErrAlreadyExists on a duplicate title.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lastUsed any
	if t.LastUsedAt != nil {
		lastUsed = formatTime(*t.LastUsedAt)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tags (id, title, note_id, last_used_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.NoteID, lastUsed,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("a tag with this title already exists")
		}
		return err
	}

	for _, groupID := range t.GroupIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO tag_group_members (group_id, tag_id) VALUES (?, ?)`,
			groupID, t.ID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTag retrieves a tag by id, including its group memberships.
func (s *Store) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("tag not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachGroupIDs(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByTitle retrieves a tag by exact title. Comparison is
// case-sensitive: "Faith" and "faith" are different tags.
func (s *Store) GetTagByTitle(ctx context.Context, title string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE title = ?`, title)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("tag not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachGroupIDs(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns the full catalog ordered by title, with group
// memberships populated.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	byID := make(map[string]*domain.Tag)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberRows, err := s.db.QueryContext(ctx,
		`SELECT tag_id, group_id FROM tag_group_members`)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var tagID, groupID string
		if err := memberRows.Scan(&tagID, &groupID); err != nil {
			return nil, err
		}
		if t, ok := byID[tagID]; ok {
			t.GroupIDs = append(t.GroupIDs, groupID)
		}
	}
	return tags, memberRows.Err()
}

// RenameTag updates a tag's title. Returns store.ErrAlreadyExists when
// the new title is taken and store.ErrNotFound for an unknown id.
func (s *Store) RenameTag(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET title = ?, updated_at = ? WHERE id = ?`,
		title, formatTime(time.Now()), id)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("a tag with this title already exists")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag not found")
	}
	return nil
}

// SetTagGroups adds and removes group memberships in one transaction.
func (s *Store) SetTagGroups(ctx context.Context, id string, addGroupIDs, removeGroupIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, groupID := range addGroupIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO tag_group_members (group_id, tag_id) VALUES (?, ?)`,
			groupID, id,
		); err != nil {
			return err
		}
	}
	for _, groupID := range removeGroupIDs {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM tag_group_members WHERE group_id = ? AND tag_id = ?`,
			groupID, id,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tags SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), id,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteTag removes a tag. Assignments and group memberships cascade.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag not found")
	}
	return nil
}

// TouchTagUsed records an assignment timestamp.
func (s *Store) TouchTagUsed(ctx context.Context, id string, usedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tags SET last_used_at = ?, updated_at = ? WHERE id = ?`,
		formatTime(usedAt), formatTime(usedAt), id)
	return err
}

// attachGroupIDs loads group memberships for a single tag.
func (s *Store) attachGroupIDs(ctx context.Context, t *domain.Tag) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id FROM tag_group_members WHERE tag_id = ?`, t.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return err
		}
		t.GroupIDs = append(t.GroupIDs, groupID)
	}
	return rows.Err()
}
