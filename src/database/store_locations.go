package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/canerthemaster123/receipto-tr-rewards-sub001/src/models"
)

// StoreLocationRepo persists canonical store locations. Satisfies
// processors.StoreLocationStore; lookups return (nil, nil) on no match so
// callers can tell "not found" apart from a failing store.
type StoreLocationRepo struct {
	DB *sql.DB
}

func NewStoreLocationRepo(db *sql.DB) *StoreLocationRepo {
	return &StoreLocationRepo{DB: db}
}

const storeLocationColumns = `id, chain_group, city, district, neighborhood, street, lat, lng, geo_cell`

func (r *StoreLocationRepo) FindByChainAndComponents(ctx context.Context, chainGroup string, comps models.AddressComponents) (*models.StoreLocation, error) {
	query := `SELECT ` + storeLocationColumns + ` FROM store_locations WHERE chain_group = ?`
	args := []interface{}{chainGroup}

	// Components narrow in a fixed order: city, district, neighborhood.
	if comps.City != "" {
		query += ` AND city LIKE '%' || ? || '%' COLLATE NOCASE`
		args = append(args, comps.City)
	}
	if comps.District != "" {
		query += ` AND district LIKE '%' || ? || '%' COLLATE NOCASE`
		args = append(args, comps.District)
	}
	if comps.Neighborhood != "" {
		query += ` AND neighborhood LIKE '%' || ? || '%' COLLATE NOCASE`
		args = append(args, comps.Neighborhood)
	}
	query += ` ORDER BY rowid ASC LIMIT 1`

	return r.queryOne(ctx, query, args...)
}

func (r *StoreLocationRepo) FirstByChain(ctx context.Context, chainGroup string) (*models.StoreLocation, error) {
	return r.queryOne(ctx,
		`SELECT `+storeLocationColumns+` FROM store_locations WHERE chain_group = ? ORDER BY rowid ASC LIMIT 1`,
		chainGroup)
}

func (r *StoreLocationRepo) FindByResolutionKey(ctx context.Context, chainGroup, city, district, neighborhood string) (*models.StoreLocation, error) {
	return r.queryOne(ctx,
		`SELECT `+storeLocationColumns+` FROM store_locations
		 WHERE chain_group = ? AND city = ? AND district = ? AND neighborhood = ? LIMIT 1`,
		chainGroup, city, district, neighborhood)
}

func (r *StoreLocationRepo) Insert(ctx context.Context, loc *models.StoreLocation) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO store_locations (id, chain_group, city, district, neighborhood, street, lat, lng, geo_cell)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID, loc.ChainGroup, loc.City, loc.District, loc.Neighborhood, loc.Street, loc.Lat, loc.Lng, loc.GeoCell)
	if err != nil {
		return fmt.Errorf("inserting store location: %w", err)
	}
	return nil
}

func (r *StoreLocationRepo) ListByChain(ctx context.Context, chainGroup string) ([]models.StoreLocation, error) {
	query := `SELECT ` + storeLocationColumns + ` FROM store_locations`
	args := []interface{}{}
	if chainGroup != "" {
		query += ` WHERE chain_group = ?`
		args = append(args, chainGroup)
	}
	query += ` ORDER BY chain_group ASC, rowid ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying store locations: %w", err)
	}
	defer rows.Close()

	var locations []models.StoreLocation
	for rows.Next() {
		loc, err := scanStoreLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating store location rows: %w", err)
	}
	return locations, nil
}

func (r *StoreLocationRepo) queryOne(ctx context.Context, query string, args ...interface{}) (*models.StoreLocation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying store location: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading store location row: %w", err)
		}
		return nil, nil
	}
	return scanStoreLocation(rows)
}

func scanStoreLocation(rows *sql.Rows) (*models.StoreLocation, error) {
	var loc models.StoreLocation
	var lat, lng sql.NullFloat64
	if err := rows.Scan(&loc.ID, &loc.ChainGroup, &loc.City, &loc.District, &loc.Neighborhood,
		&loc.Street, &lat, &lng, &loc.GeoCell); err != nil {
		return nil, fmt.Errorf("scanning store location row: %w", err)
	}
	if lat.Valid {
		loc.Lat = &lat.Float64
	}
	if lng.Valid {
		loc.Lng = &lng.Float64
	}
	return &loc, nil
}
