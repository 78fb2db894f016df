package sqlite

import (
	"context"

	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

// UpsertModule inserts or refreshes an installed translation module.
func (s *Store) UpsertModule(ctx context.Context, mod *domain.Module) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (id, description, language, right_to_left, has_strongs, installed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			language = excluded.language,
			right_to_left = excluded.right_to_left,
			has_strongs = excluded.has_strongs`,
		mod.ID, mod.Description, mod.Language,
		boolToInt(mod.RightToLeft), boolToInt(mod.HasStrongs),
		formatTime(mod.InstalledAt))
	return err
}

// ListModules returns installed modules ordered by id.
func (s *Store) ListModules(ctx context.Context) ([]*domain.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, language, right_to_left, has_strongs, installed_at
		FROM modules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mods []*domain.Module
	for rows.Next() {
		var (
			m           domain.Module
			rtl, str    int
			installedAt string
		)
		if err := rows.Scan(&m.ID, &m.Description, &m.Language, &rtl, &str, &installedAt); err != nil {
			return nil, err
		}
		m.RightToLeft = rtl != 0
		m.HasStrongs = str != 0
		if m.InstalledAt, err = parseTime(installedAt); err != nil {
			return nil, err
		}
		mods = append(mods, &m)
	}
	return mods, rows.Err()
}

// DeleteModule removes a module record.
func (s *Store) DeleteModule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("module not found")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
