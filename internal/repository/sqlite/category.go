package sqlite

import (
	"context"
	"fmt"

	"github.com/msomdec/shoplist/internal/domain"
)

var _ domain.CategoryRepository = (*categoryRepo)(nil)

// categoryRepo implements domain.CategoryRepository using SQLite. The
// (user_id, name) primary key makes Add a set-union write.
type categoryRepo struct {
	db DBTX
}

func (r *categoryRepo) Add(ctx context.Context, userID, name string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_categories (user_id, name) VALUES (?, ?)", userID, name)
	if err != nil {
		return false, fmt.Errorf("add category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *categoryRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM user_categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
