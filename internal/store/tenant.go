package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentdesk/internal/utils"
	"rentdesk/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tenantTableName = "rentdesk.tenants"

var tenantColumns = utils.StructTagValues(types.Tenant{})

type TenantRepository struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

func (r *TenantRepository) Tenant(ctx context.Context, userID string) (*types.Tenant, error) {
	query, args, err := psql().
		Select(tenantColumns...).
		From(tenantTableName).
		Where(sq.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant query: %w", err)
	}

	var tenant types.Tenant
	err = pgxscan.Get(ctx, r.pool, &tenant, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	return &tenant, nil
}

// Tenants lists tenant profiles, optionally narrowed to a unit or to a
// property. The unit id embeds the property id as its prefix, so the
// property filter matches on that prefix.
func (r *TenantRepository) Tenants(ctx context.Context, filter types.TenantFilter) ([]*types.Tenant, error) {
	builder := psql().
		Select(tenantColumns...).
		From(tenantTableName).
		OrderBy("created_at desc")

	if filter.UnitID != "" {
		builder = builder.Where(sq.Eq{"unit_id": filter.UnitID})
	} else if filter.PropertyID != "" {
		builder = builder.Where(sq.Like{"unit_id": filter.PropertyID + "\\_%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenants query: %w", err)
	}

	tenants := make([]*types.Tenant, 0)
	err = pgxscan.Select(ctx, r.pool, &tenants, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	return tenants, nil
}

func (r *TenantRepository) TenantByUnit(ctx context.Context, unitID string) (*types.Tenant, error) {
	query, args, err := psql().
		Select(tenantColumns...).
		From(tenantTableName).
		Where(sq.Eq{"unit_id": unitID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant-by-unit query: %w", err)
	}

	var tenant types.Tenant
	err = pgxscan.Get(ctx, r.pool, &tenant, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to fetch tenant by unit: %w", err)
	}

	return &tenant, nil
}

func (r *TenantRepository) Upsert(ctx context.Context, tenant *types.Tenant) error {
	now := time.Now()
	tenant.UpdatedAt = now
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = now
	}

	tenantMap := utils.StructToMap(tenant)

	assignments := make([]string, 0, len(tenantMap))
	for column := range tenantMap {
		if column == "user_id" || column == "created_at" {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	query, args, err := psql().
		Insert(tenantTableName).
		SetMap(tenantMap).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET " + strings.Join(assignments, ", ")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert tenant query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert tenant")
}

func (r *TenantRepository) SetLeaseDocument(ctx context.Context, userID, documentURL string, uploadedAt time.Time) error {
	query, args, err := psql().
		Update(tenantTableName).
		Set("lease_document_url", documentURL).
		Set("document_upload_date", uploadedAt).
		Set("updated_at", uploadedAt).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate set lease document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to set lease document")
}
