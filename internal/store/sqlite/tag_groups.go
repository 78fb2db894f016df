package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

const groupColumns = `id, title, created_at, updated_at`

func scanTagGroup(scanner interface{ Scan(dest ...any) error }) (*domain.TagGroup, error) {
	var (
		g         domain.TagGroup
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&g.ID, &g.Title, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateTagGroup inserts a new group.
func (s *Store) CreateTagGroup(ctx context.Context, g *domain.TagGroup) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tag_groups (id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		g.ID, g.Title, formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("a tag group with this title already exists")
	}
	return err
}

// GetTagGroup retrieves a group by id.
func (s *Store) GetTagGroup(ctx context.Context, id string) (*domain.TagGroup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM tag_groups WHERE id = ?`, id)

	g, err := scanTagGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("tag group not found")
	}
	return g, err
}

// ListTagGroups returns all groups ordered by title.
func (s *Store) ListTagGroups(ctx context.Context) ([]*domain.TagGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+groupColumns+` FROM tag_groups ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.TagGroup
	for rows.Next() {
		g, err := scanTagGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// RenameTagGroup updates a group's title.
func (s *Store) RenameTagGroup(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tag_groups SET title = ?, updated_at = ? WHERE id = ?`,
		title, formatTime(time.Now()), id)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("a tag group with this title already exists")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag group not found")
	}
	return nil
}

// DeleteTagGroup removes a group. Memberships cascade; tags survive.
func (s *Store) DeleteTagGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tag_groups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("tag group not found")
	}
	return nil
}

// ListTagsInGroup returns the tags belonging to a group, ordered by title.
func (s *Store) ListTagsInGroup(ctx context.Context, groupID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedTagColumns("t")+`
		FROM tags t
		JOIN tag_group_members m ON m.tag_id = t.id
		WHERE m.group_id = ?
		ORDER BY t.title COLLATE NOCASE, t.id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range tags {
		if err := s.attachGroupIDs(ctx, t); err != nil {
			return nil, err
		}
	}
	return tags, nil
}

func prefixedTagColumns(alias string) string {
	return alias + ".id, " + alias + ".title, " + alias + ".note_id, " +
		alias + ".last_used_at, " + alias + ".created_at, " + alias + ".updated_at"
}
