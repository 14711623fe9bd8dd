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

const propertyTableName = "rentdesk.properties"

var propertyColumns = utils.StructTagValues(types.Property{})

type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

func (r *PropertyRepository) Property(ctx context.Context, propertyID string) (*types.Property, error) {
	query, args, err := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate property query: %w", err)
	}

	var property types.Property
	err = pgxscan.Get(ctx, r.pool, &property, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to fetch property: %w", err)
	}

	return &property, nil
}

func (r *PropertyRepository) Properties(ctx context.Context, filter types.PropertyFilter) ([]*types.Property, error) {
	builder := psql().
		Select(propertyColumns...).
		From(propertyTableName).
		OrderBy("created_at desc")

	if filter.City != "" {
		builder = builder.Where(sq.Eq{"city": filter.City})
	}

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		builder = builder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"address": pattern},
			sq.ILike{"city": pattern},
		})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate properties query: %w", err)
	}

	properties := make([]*types.Property, 0)
	err = pgxscan.Select(ctx, r.pool, &properties, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepository) Create(ctx context.Context, property *types.Property) error {
	now := time.Now()
	if property.ID == "" {
		property.ID = utils.NanoID()
	}
	property.CreatedAt = now
	property.UpdatedAt = now

	query, args, err := psql().
		Insert(propertyTableName).
		SetMap(utils.StructToMap(property)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create property query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create property")
}

func (r *PropertyRepository) Update(ctx context.Context, propertyID string, property *types.Property) error {
	property.ID = propertyID
	property.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(propertyTableName).
		SetMap(utils.StructToMap(property)).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update property query for property %s: %w", propertyID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update property")
}

func (r *PropertyRepository) Delete(ctx context.Context, propertyID string) error {
	query, args, err := psql().
		Delete(propertyTableName).
		Where(sq.Eq{"id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete property query for property %s: %w", propertyID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete property")
}
