package repo

import (
	"context"
	"fmt"

	"pewarnaan/internal/domain"
	"pewarnaan/internal/infra"
	"pewarnaan/internal/sqlinline"
)

// CatalogRepositoryPG implements domain.CatalogRepository and
// domain.CatalogWriter on PostgreSQL.
type CatalogRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCatalogRepository constructs a catalog repository on top of the SQL runner.
func NewCatalogRepository(sql infra.SQLExecutor) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{sql: sql}
}

func (r *CatalogRepositoryPG) ListColors(ctx context.Context) ([]domain.ThreadColor, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListThreadColors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []domain.ThreadColor
	for rows.Next() {
		var c domain.ThreadColor
		if err := rows.Scan(&c.Code, &c.HSV.H, &c.HSV.S, &c.HSV.V); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return colors, nil
}

func (r *CatalogRepositoryPG) ListCharacteristics(ctx context.Context) (map[string]domain.Characteristic, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCharacteristics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.Characteristic)
	for rows.Next() {
		var c domain.Characteristic
		if err := rows.Scan(&c.Name, &c.Garis, &c.Pola, &c.WarnaDominasi, &c.WarnaAksen, &c.KontrasWarna); err != nil {
			return nil, err
		}
		out[c.Name] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepositoryPG) ListMotifs(ctx context.Context, ulosType string) ([]domain.Motif, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListMotifsByType, ulosType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var motifs []domain.Motif
	for rows.Next() {
		var m domain.Motif
		if err := rows.Scan(&m.ID, &m.UlosType, &m.Name, &m.StorageKey, &m.Format, &m.CreatedAt); err != nil {
			return nil, err
		}
		motifs = append(motifs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return motifs, nil
}

func (r *CatalogRepositoryPG) GetMotif(ctx context.Context, id string) (*domain.Motif, error) {
	var m domain.Motif
	row := r.sql.QueryRow(ctx, sqlinline.QSelectMotifByID, id)
	if err := row.Scan(&m.ID, &m.UlosType, &m.Name, &m.StorageKey, &m.Format, &m.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *CatalogRepositoryPG) UlosTypes(ctx context.Context) ([]string, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUlosTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// UpsertColor inserts or updates a thread color and reports whether a new
// row was created.
func (r *CatalogRepositoryPG) UpsertColor(ctx context.Context, color domain.ThreadColor) (bool, error) {
	var created bool
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertThreadColor, color.Code, color.HSV.H, color.HSV.S, color.HSV.V)
	if err := row.Scan(&created); err != nil {
		return false, fmt.Errorf("upsert color %s: %w", color.Code, err)
	}
	return created, nil
}

func (r *CatalogRepositoryPG) UpsertCharacteristic(ctx context.Context, c domain.Characteristic) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpsertCharacteristic, c.Name, c.Garis, c.Pola, c.WarnaDominasi, c.WarnaAksen, c.KontrasWarna)
	return err
}

// InsertMotif stores a motif unless one with the same id exists.
func (r *CatalogRepositoryPG) InsertMotif(ctx context.Context, m domain.Motif) (bool, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QInsertMotif, m.ID, m.UlosType, m.Name, m.StorageKey, m.Format)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

var (
	_ domain.CatalogRepository = (*CatalogRepositoryPG)(nil)
	_ domain.CatalogWriter     = (*CatalogRepositoryPG)(nil)
)
