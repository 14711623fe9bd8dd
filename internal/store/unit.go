package store

import (
	"context"
	"fmt"
	"time"

	"rentdesk/internal/utils"
	"rentdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const unitTableName = "rentdesk.units"

var unitColumns = utils.StructTagValues(types.Unit{})

type UnitRepository struct {
	pool *pgxpool.Pool
}

func NewUnitRepository(pool *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{pool: pool}
}

func (r *UnitRepository) Unit(ctx context.Context, unitID string) (*types.Unit, error) {
	query, args, err := psql().
		Select(unitColumns...).
		From(unitTableName).
		Where(sq.Eq{"id": unitID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unit query: %w", err)
	}

	var unit types.Unit
	err = pgxscan.Get(ctx, r.pool, &unit, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}

	return &unit, nil
}

func (r *UnitRepository) Units(ctx context.Context, filter types.UnitFilter) ([]*types.Unit, error) {
	builder := psql().
		Select(unitColumns...).
		From(unitTableName).
		OrderBy("id")

	if filter.PropertyID != "" {
		builder = builder.Where(sq.Eq{"property_id": filter.PropertyID})
	}

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate units query: %w", err)
	}

	units := make([]*types.Unit, 0)
	err = pgxscan.Select(ctx, r.pool, &units, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}

	return units, nil
}

func (r *UnitRepository) Create(ctx context.Context, unit *types.Unit) error {
	now := time.Now()
	unit.ID = types.UnitID(unit.PropertyID, unit.UnitNumber)
	if unit.Status == "" {
		unit.Status = types.UnitStatusVacant
	}
	unit.CreatedAt = now
	unit.UpdatedAt = now

	query, args, err := psql().
		Insert(unitTableName).
		SetMap(utils.StructToMap(unit)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create unit query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create unit")
}

func (r *UnitRepository) SetStatus(ctx context.Context, unitID string, status types.UnitStatus) error {
	query, args, err := psql().
		Update(unitTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": unitID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set unit status query for unit %s: %w", unitID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to set unit status")
}
