package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lampstandapp/lampstand-server/internal/canon"
	"github.com/lampstandapp/lampstand-server/internal/domain"
	"github.com/lampstandapp/lampstand-server/internal/store"
)

// AssignTagToVerses inserts assignments for refs that do not already
// carry the tag. Assigning to an already-tagged verse is a no-op per
// verse. On success the tag's last_used_at is advanced in the same
// transaction, so a crash cannot leave the two out of step.
func (s *Store) AssignTagToVerses(ctx context.Context, tagID string, refs []domain.VerseRef) ([]domain.VerseRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tags WHERE id = ?`, tagID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, store.ErrNotFound.WithMessage("tag not found")
	}

	now := time.Now()
	var inserted []domain.VerseRef
	for _, ref := range refs {
		res, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO tag_assignments
				(tag_id, book, chapter, verse, book_ordinal, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			tagID, ref.Book, ref.Chapter, ref.Verse,
			canon.Ordinal(ref.Book), formatTime(now))
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			inserted = append(inserted, ref)
		}
	}

	if len(inserted) > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE tags SET last_used_at = ?, updated_at = ? WHERE id = ?`,
			formatTime(now), formatTime(now), tagID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return inserted, nil
}

// RemoveTagFromVerses deletes assignments for the given refs. Verses not
// carrying the tag are skipped; counts can never go negative because
// only existing rows are deleted. LastUsedAt is never touched here.
func (s *Store) RemoveTagFromVerses(ctx context.Context, tagID string, refs []domain.VerseRef) ([]domain.VerseRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var removed []domain.VerseRef
	for _, ref := range refs {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM tag_assignments
			WHERE tag_id = ? AND book = ? AND chapter = ? AND verse = ?`,
			tagID, ref.Book, ref.Chapter, ref.Verse)
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			removed = append(removed, ref)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return removed, nil
}

// GetVerseTags returns the tags carried by each verse, keyed by
// VerseRef.Key(). Verses without tags are absent from the map.
func (s *Store) GetVerseTags(ctx context.Context, refs []domain.VerseRef) (map[string][]*domain.Tag, error) {
	result := make(map[string][]*domain.Tag)
	if len(refs) == 0 {
		return result, nil
	}

	// Build one query over all requested verses.
	var (
		conds []string
		args  []any
	)
	for _, ref := range refs {
		conds = append(conds, "(a.book = ? AND a.chapter = ? AND a.verse = ?)")
		args = append(args, ref.Book, ref.Chapter, ref.Verse)
	}

	query := `
		SELECT a.book, a.chapter, a.verse, ` + prefixedTagColumns("t") + `
		FROM tag_assignments a
		JOIN tags t ON t.id = a.tag_id
		WHERE ` + strings.Join(conds, " OR ") + `
		ORDER BY t.title COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref domain.VerseRef
		var t domain.Tag
		var lastUsed, createdAt, updatedAt *string

		err := rows.Scan(&ref.Book, &ref.Chapter, &ref.Verse,
			&t.ID, &t.Title, &t.NoteID, &lastUsed, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}
		if lastUsed != nil && *lastUsed != "" {
			ts, err := parseTime(*lastUsed)
			if err != nil {
				return nil, err
			}
			t.LastUsedAt = &ts
		}
		if createdAt != nil {
			if t.CreatedAt, err = parseTime(*createdAt); err != nil {
				return nil, err
			}
		}
		if updatedAt != nil {
			if t.UpdatedAt, err = parseTime(*updatedAt); err != nil {
				return nil, err
			}
		}

		tag := t
		result[ref.Key()] = append(result[ref.Key()], &tag)
	}
	return result, rows.Err()
}

// assignmentSortKey builds the lexicographic cursor key for one row.
func assignmentSortKey(ordinal, chapter, verse int) string {
	return fmt.Sprintf("%03d.%03d.%03d", ordinal, chapter, verse)
}

// ListTagAssignments returns a tag's assignments in canon order with
// cursor pagination.
func (s *Store) ListTagAssignments(ctx context.Context, tagID string, params store.PaginationParams) (*store.PaginatedResult[domain.TagAssignment], error) {
	params.Normalize()

	afterKey, err := store.DecodeCursor(params.Cursor)
	if err != nil {
		return nil, store.ErrInvalidInput.WithCause(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT book, chapter, verse, created_at
		FROM tag_assignments
		WHERE tag_id = ?
		  AND printf('%03d.%03d.%03d', book_ordinal, chapter, verse) > ?
		ORDER BY book_ordinal, chapter, verse
		LIMIT ?`, tagID, afterKey, params.Limit+1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.TagAssignment
	for rows.Next() {
		var (
			a         domain.TagAssignment
			createdAt string
		)
		if err := rows.Scan(&a.Verse.Book, &a.Verse.Chapter, &a.Verse.Verse, &createdAt); err != nil {
			return nil, err
		}
		a.TagID = tagID
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &store.PaginatedResult[domain.TagAssignment]{Items: items}
	if len(items) > params.Limit {
		result.Items = items[:params.Limit]
		last := result.Items[len(result.Items)-1]
		lastKey := assignmentSortKey(canon.Ordinal(last.Verse.Book), last.Verse.Chapter, last.Verse.Verse)
		result.HasMore = true
		result.NextCursor = store.EncodeCursor(lastKey)
	}
	return result, nil
}

// DeleteTagAssignments removes all assignments for a tag and returns
// how many were deleted.
func (s *Store) DeleteTagAssignments(ctx context.Context, tagID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tag_assignments WHERE tag_id = ?`, tagID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// BookTagStatistics returns, for every tag with at least one
// assignment, its count within the given book and its global count.
func (s *Store) BookTagStatistics(ctx context.Context, book string) (map[string]*domain.TagStatistics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_id,
		       SUM(CASE WHEN book = ? THEN 1 ELSE 0 END),
		       COUNT(*)
		FROM tag_assignments
		GROUP BY tag_id`, book)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]*domain.TagStatistics)
	for rows.Next() {
		st := &domain.TagStatistics{}
		if err := rows.Scan(&st.TagID, &st.BookCount, &st.GlobalCount); err != nil {
			return nil, err
		}
		stats[st.TagID] = st
	}
	return stats, rows.Err()
}

// GlobalTagCounts returns total assignment counts per tag.
func (s *Store) GlobalTagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_id, COUNT(*) FROM tag_assignments GROUP BY tag_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tagID string
		var n int
		if err := rows.Scan(&tagID, &n); err != nil {
			return nil, err
		}
		counts[tagID] = n
	}
	return counts, rows.Err()
}

// BooksWithTag returns the distinct books in which a tag is assigned.
func (s *Store) BooksWithTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT book FROM tag_assignments
		WHERE tag_id = ? ORDER BY book_ordinal`, tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
