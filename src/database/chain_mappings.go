package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
)

// ChainMappingRepo gives the pipeline and the admin endpoints access to the
// chain_mappings reference table. Satisfies processors.ChainMappingStore.
type ChainMappingRepo struct {
	DB *sql.DB
}

func NewChainMappingRepo(db *sql.DB) *ChainMappingRepo {
	return &ChainMappingRepo{DB: db}
}

func (r *ChainMappingRepo) ListActive(ctx context.Context) ([]models.ChainMapping, error) {
	return r.list(ctx, `SELECT id, raw_merchant_pattern, chain_group, priority, active
		FROM chain_mappings WHERE active = TRUE ORDER BY priority DESC, id ASC`)
}

func (r *ChainMappingRepo) ListAll(ctx context.Context) ([]models.ChainMapping, error) {
	return r.list(ctx, `SELECT id, raw_merchant_pattern, chain_group, priority, active
		FROM chain_mappings ORDER BY priority DESC, id ASC`)
}

func (r *ChainMappingRepo) list(ctx context.Context, query string) ([]models.ChainMapping, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying chain mappings: %w", err)
	}
	defer rows.Close()

	var mappings []models.ChainMapping
	for rows.Next() {
		var m models.ChainMapping
		if err := rows.Scan(&m.ID, &m.RawMerchantPattern, &m.ChainGroup, &m.Priority, &m.Active); err != nil {
			return nil, fmt.Errorf("scanning chain mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chain mapping rows: %w", err)
	}
	return mappings, nil
}

func (r *ChainMappingRepo) Insert(ctx context.Context, m *models.ChainMapping) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO chain_mappings (raw_merchant_pattern, chain_group, priority, active) VALUES (?, ?, ?, ?)`,
		m.RawMerchantPattern, m.ChainGroup, m.Priority, m.Active)
	if err != nil {
		return fmt.Errorf("inserting chain mapping: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (r *ChainMappingRepo) Update(ctx context.Context, m *models.ChainMapping) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE chain_mappings SET raw_merchant_pattern = ?, chain_group = ?, priority = ?, active = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		m.RawMerchantPattern, m.ChainGroup, m.Priority, m.Active, m.ID)
	if err != nil {
		return fmt.Errorf("updating chain mapping %d: %w", m.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ChainMappingRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM chain_mappings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting chain mapping %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
