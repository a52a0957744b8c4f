package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/shoplist/internal/domain"
)

// itemRepo implements domain.ItemRepository using SQLite.
type itemRepo struct {
	db DBTX
}

const itemColumns = `i.id, i.user_id, i.name, i.category, i.quantity, i.amount, i.units, i.image,
	i.completed, i.priority, i.notes, i.created_at, i.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (domain.Item, error) {
	var it domain.Item
	err := s.Scan(&it.ID, &it.UserID, &it.Name, &it.Category, &it.Quantity, &it.Amount, &it.Units,
		&it.Image, &it.Completed, &it.Priority, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()
	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *itemRepo) Create(ctx context.Context, item *domain.Item) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items (id, user_id, name, category, quantity, amount, units, image, completed, priority, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Name, item.Category, item.Quantity, item.Amount, item.Units,
		item.Image, item.Completed, item.Priority, item.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) Get(ctx context.Context, userID, id string) (*domain.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ? AND i.user_id = ?`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *itemRepo) Update(ctx context.Context, item *domain.Item) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, category = ?, quantity = ?, amount = ?, units = ?, image = ?,
		 completed = ?, priority = ?, notes = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		item.Name, item.Category, item.Quantity, item.Amount, item.Units, item.Image,
		item.Completed, item.Priority, item.Notes, now, item.ID, item.UserID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if err := expectRow(result); err != nil {
		return err
	}
	item.UpdatedAt = now
	return nil
}

func (r *itemRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return expectRow(result)
}

func (r *itemRepo) ListByUser(ctx context.Context, userID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.user_id = ? ORDER BY i.updated_at DESC, i.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return scanItems(rows)
}

func (r *itemRepo) ListByList(ctx context.Context, listID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM list_items li JOIN items i ON i.id = li.item_id
		 WHERE li.list_id = ? ORDER BY li.position`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items of list: %w", err)
	}
	return scanItems(rows)
}

func (r *itemRepo) FindIDs(ctx context.Context, userID string, filter domain.ItemFilter) ([]string, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString("SELECT i.id FROM items i")
	if filter.ListID != "" {
		query.WriteString(" JOIN list_items li ON li.item_id = i.id AND li.list_id = ?")
		args = append(args, filter.ListID)
	}
	query.WriteString(" WHERE i.user_id = ?")
	args = append(args, userID)
	if filter.Category != "" {
		query.WriteString(" AND i.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Completed {
		query.WriteString(" AND i.completed = 1")
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *itemRepo) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	var total int64
	for _, batch := range chunks(ids) {
		result, err := r.db.ExecContext(ctx,
			"DELETE FROM items WHERE user_id = ? AND id IN ("+placeholders(len(batch))+")",
			stringArgs([]any{userID}, batch)...,
		)
		if err != nil {
			return total, fmt.Errorf("delete items: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += n
	}
	return total, nil
}
