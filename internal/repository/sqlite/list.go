package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/shoplist/internal/domain"
)

// listRepo implements domain.ListRepository using SQLite.
type listRepo struct {
	db DBTX
}

func (r *listRepo) Create(ctx context.Context, list *domain.ShoppingList) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (id, user_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		list.ID, list.UserID, list.Name, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	list.CreatedAt = now
	list.UpdatedAt = now
	return nil
}

func (r *listRepo) Get(ctx context.Context, userID, id string) (*domain.ShoppingList, error) {
	l := &domain.ShoppingList{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM shopping_lists WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	ids, err := r.ItemIDs(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.ItemIDs = ids
	return l, nil
}

func (r *listRepo) ListByUser(ctx context.Context, userID string) ([]domain.ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at, updated_at
		 FROM shopping_lists WHERE user_id = ? ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.ShoppingList
	for rows.Next() {
		var l domain.ShoppingList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		ids, err := r.ItemIDs(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].ItemIDs = ids
	}
	return lists, nil
}

func (r *listRepo) Rename(ctx context.Context, userID, id, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shopping_lists SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		name, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return fmt.Errorf("rename list: %w", err)
	}
	return expectRow(result)
}

func (r *listRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM shopping_lists WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return expectRow(result)
}

func (r *listRepo) Touch(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE shopping_lists SET updated_at = ? WHERE id = ?", time.Now().UTC(), id); err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return nil
}

func (r *listRepo) AppendItems(ctx context.Context, listID string, itemIDs ...string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	var last int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), 0) FROM list_items WHERE list_id = ?", listID,
	).Scan(&last); err != nil {
		return fmt.Errorf("read last position: %w", err)
	}

	for i, itemID := range itemIDs {
		if _, err := r.db.ExecContext(ctx,
			"INSERT INTO list_items (list_id, item_id, position) VALUES (?, ?, ?)",
			listID, itemID, last+int64(i)+1,
		); err != nil {
			return fmt.Errorf("append item %s: %w", itemID, err)
		}
	}
	return nil
}

func (r *listRepo) RemoveItems(ctx context.Context, listID string, itemIDs ...string) error {
	for _, batch := range chunks(itemIDs) {
		if _, err := r.db.ExecContext(ctx,
			"DELETE FROM list_items WHERE list_id = ? AND item_id IN ("+placeholders(len(batch))+")",
			stringArgs([]any{listID}, batch)...,
		); err != nil {
			return fmt.Errorf("remove list items: %w", err)
		}
	}
	return nil
}

func (r *listRepo) ItemIDs(ctx context.Context, listID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT item_id FROM list_items WHERE list_id = ? ORDER BY position", listID)
	if err != nil {
		return nil, fmt.Errorf("list item refs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item ref: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// expectRow maps an UPDATE/DELETE that touched nothing to ErrNotFound.
func expectRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
