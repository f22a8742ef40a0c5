package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"Coordinator/internal/catalog/domain"
)

const dbTimeout = 3 * time.Second

const (
	OpCreateMap        = "repo.catalog.sqlite.CreateMap"
	OpListMaps         = "repo.catalog.sqlite.ListMaps"
	OpGetMap           = "repo.catalog.sqlite.GetMap"
	OpUpdateMap        = "repo.catalog.sqlite.UpdateMap"
	OpDeleteMap        = "repo.catalog.sqlite.DeleteMap"
	OpCountMaps        = "repo.catalog.sqlite.CountMaps"
	OpAddCoordinate    = "repo.catalog.sqlite.AddCoordinate"
	OpListCoordinates  = "repo.catalog.sqlite.ListCoordinates"
	OpUpdateCoordinate = "repo.catalog.sqlite.UpdateCoordinate"
	OpDeleteCoordinate = "repo.catalog.sqlite.DeleteCoordinate"
)

// CatalogRepo 基于 database/sql + modernc sqlite，表结构见 infrastructure/sqlite。
type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, dbTimeout)
}

func (r *CatalogRepo) CreateMap(ctx context.Context, m *domain.Map) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO maps (name, created_at, version) VALUES (?, ?, ?)`,
		m.Name, m.CreatedAt.UTC(), m.Version)
	if err != nil {
		return 0, domain.Unavailable(OpCreateMap, err, map[string]any{"name": m.Name})
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.Unavailable(OpCreateMap, err, nil)
	}
	return id, nil
}

func (r *CatalogRepo) ListMaps(ctx context.Context) ([]*domain.Map, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, version, created_at FROM maps ORDER BY id`)
	if err != nil {
		return nil, domain.Unavailable(OpListMaps, err, nil)
	}
	defer rows.Close()

	maps := []*domain.Map{}
	for rows.Next() {
		var m domain.Map
		if err := rows.Scan(&m.ID, &m.Name, &m.Version, &m.CreatedAt); err != nil {
			return nil, domain.Unavailable(OpListMaps, err, nil)
		}
		maps = append(maps, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(OpListMaps, err, nil)
	}
	return maps, nil
}

func (r *CatalogRepo) GetMap(ctx context.Context, id int64) (*domain.Map, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var m domain.Map
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, version, created_at FROM maps WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Version, &m.CreatedAt)
	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, domain.ErrMapNotFound
	default:
		return nil, domain.Unavailable(OpGetMap, err, map[string]any{"map_id": id})
	}
}

func (r *CatalogRepo) UpdateMap(ctx context.Context, m *domain.Map) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE maps SET name = ?, version = ? WHERE id = ?`, m.Name, m.Version, m.ID)
	if err != nil {
		return domain.Unavailable(OpUpdateMap, err, map[string]any{"map_id": m.ID})
	}
	return affectedOrNotFound(res, domain.ErrMapNotFound, OpUpdateMap)
}

func (r *CatalogRepo) DeleteMap(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coordinates WHERE mapid = ?`, id); err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	if err := affectedOrNotFound(res, domain.ErrMapNotFound, OpDeleteMap); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Unavailable(OpDeleteMap, err, map[string]any{"map_id": id})
	}
	return nil
}

func (r *CatalogRepo) CountMaps(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM maps`).Scan(&n); err != nil {
		return 0, domain.Unavailable(OpCountMaps, err, nil)
	}
	return n, nil
}

func (r *CatalogRepo) AddCoordinate(ctx context.Context, c *domain.Coordinate) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM maps WHERE id = ?`, c.MapID).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, domain.ErrMapNotFound
	case err != nil:
		return 0, domain.Unavailable(OpAddCoordinate, err, map[string]any{"map_id": c.MapID})
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO coordinates (name, created_at, xvalue, yvalue, zvalue, mapid) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.CreatedAt.UTC(), c.X, c.Y, c.Z, c.MapID)
	if err != nil {
		return 0, domain.Unavailable(OpAddCoordinate, err, map[string]any{"map_id": c.MapID})
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.Unavailable(OpAddCoordinate, err, nil)
	}
	return id, nil
}

func (r *CatalogRepo) ListCoordinates(ctx context.Context, mapID int64) ([]*domain.Coordinate, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mapid, name, xvalue, yvalue, zvalue, created_at FROM coordinates
		 WHERE mapid = ? ORDER BY created_at DESC, id DESC`, mapID)
	if err != nil {
		return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
	}
	defer rows.Close()

	coords := []*domain.Coordinate{}
	for rows.Next() {
		var c domain.Coordinate
		if err := rows.Scan(&c.ID, &c.MapID, &c.Name, &c.X, &c.Y, &c.Z, &c.CreatedAt); err != nil {
			return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
		}
		coords = append(coords, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(OpListCoordinates, err, map[string]any{"map_id": mapID})
	}
	return coords, nil
}

func (r *CatalogRepo) UpdateCoordinate(ctx context.Context, c *domain.Coordinate) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE coordinates SET name = ?, xvalue = ?, yvalue = ?, zvalue = ? WHERE id = ?`,
		c.Name, c.X, c.Y, c.Z, c.ID)
	if err != nil {
		return domain.Unavailable(OpUpdateCoordinate, err, map[string]any{"coord_id": c.ID})
	}
	return affectedOrNotFound(res, domain.ErrCoordinateNotFound, OpUpdateCoordinate)
}

func (r *CatalogRepo) DeleteCoordinate(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM coordinates WHERE id = ?`, id)
	if err != nil {
		return domain.Unavailable(OpDeleteCoordinate, err, map[string]any{"coord_id": id})
	}
	return affectedOrNotFound(res, domain.ErrCoordinateNotFound, OpDeleteCoordinate)
}

func (r *CatalogRepo) Close() error {
	return r.db.Close()
}

func affectedOrNotFound(res sql.Result, notFound error, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Unavailable(op, err, nil)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
