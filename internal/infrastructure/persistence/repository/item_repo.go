package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/application/port"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
	"github.com/gilangrmdnii/invoice-backend/internal/domain/finance"
	"github.com/gilangrmdnii/invoice-backend/internal/infrastructure/persistence/sqlite"
)

// ItemRepository implements port.ItemRepository
type ItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB, logger *zap.Logger) port.ItemRepository {
	return &ItemRepository{
		db:     db,
		logger: logger,
	}
}

const insertItemQuery = `
	INSERT INTO document_items (
		document_type, document_id, parent_id, is_label, description,
		quantity, unit, unit_price, subtotal, sort_order
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Replace swaps the document's whole item set for the given tree. Label
// rows are inserted first so their generated IDs can parent the children.
// Callers run this inside a transaction when it must be atomic with
// other writes.
func (r *ItemRepository) Replace(ctx context.Context, docType string, docID int64, tree *finance.ItemTree) error {
	exec := sqlite.ExecutorFor(ctx, r.db)

	if err := r.deleteAll(ctx, exec, docType, docID); err != nil {
		return err
	}

	for _, group := range tree.Groups {
		labelID, err := r.insert(ctx, exec, docType, docID, nil, group.Label)
		if err != nil {
			return err
		}
		for _, child := range group.Children {
			if _, err := r.insert(ctx, exec, docType, docID, &labelID, child); err != nil {
				return err
			}
		}
	}
	for _, item := range tree.Standalone {
		if _, err := r.insert(ctx, exec, docType, docID, nil, item); err != nil {
			return err
		}
	}

	return nil
}

func (r *ItemRepository) insert(ctx context.Context, exec sqlite.Executor, docType string, docID int64, parentID *int64, item entity.DocumentItem) (int64, error) {
	result, err := exec.ExecContext(ctx, insertItemQuery,
		docType,
		docID,
		parentID,
		item.IsLabel,
		item.Description,
		item.Quantity,
		item.Unit,
		item.UnitPrice,
		item.Subtotal,
		item.SortOrder,
	)
	if err != nil {
		r.logger.Error("Failed to insert document item",
			zap.String("document_type", docType), zap.Int64("document_id", docID), zap.Error(err))
		return 0, fmt.Errorf("failed to insert document item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// ListByDocument returns the document's items ordered labels first, each
// followed by its children in submission order.
func (r *ItemRepository) ListByDocument(ctx context.Context, docType string, docID int64) ([]*entity.DocumentItem, error) {
	query := `
		SELECT id, document_type, document_id, parent_id, is_label, description,
			quantity, unit, unit_price, subtotal, sort_order, created_at
		FROM document_items
		WHERE document_type = ? AND document_id = ?
		ORDER BY COALESCE(parent_id, id), is_label DESC, sort_order
	`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, docType, docID)
	if err != nil {
		r.logger.Error("Failed to list document items",
			zap.String("document_type", docType), zap.Int64("document_id", docID), zap.Error(err))
		return nil, fmt.Errorf("failed to list document items: %w", err)
	}
	defer rows.Close()

	var items []*entity.DocumentItem
	for rows.Next() {
		var item entity.DocumentItem
		var parentID sql.NullInt64
		err := rows.Scan(
			&item.ID,
			&item.DocumentType,
			&item.DocumentID,
			&parentID,
			&item.IsLabel,
			&item.Description,
			&item.Quantity,
			&item.Unit,
			&item.UnitPrice,
			&item.Subtotal,
			&item.SortOrder,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document item: %w", err)
		}
		if parentID.Valid {
			item.ParentID = &parentID.Int64
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

// DeleteByDocument removes the document's whole item set
func (r *ItemRepository) DeleteByDocument(ctx context.Context, docType string, docID int64) error {
	return r.deleteAll(ctx, sqlite.ExecutorFor(ctx, r.db), docType, docID)
}

func (r *ItemRepository) deleteAll(ctx context.Context, exec sqlite.Executor, docType string, docID int64) error {
	query := `DELETE FROM document_items WHERE document_type = ? AND document_id = ?`

	if _, err := exec.ExecContext(ctx, query, docType, docID); err != nil {
		r.logger.Error("Failed to delete document items",
			zap.String("document_type", docType), zap.Int64("document_id", docID), zap.Error(err))
		return fmt.Errorf("failed to delete document items: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.ItemRepository = (*ItemRepository)(nil)
