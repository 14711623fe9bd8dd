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

const (
	maintenanceTableName       = "rentdesk.maintenance_requests"
	maintenanceUpdateTableName = "rentdesk.maintenance_updates"
)

var (
	maintenanceColumns       = utils.StructTagValues(types.MaintenanceRequest{})
	maintenanceUpdateColumns = utils.StructTagValues(types.MaintenanceUpdate{})
)

type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

func (r *MaintenanceRepository) Request(ctx context.Context, requestID string) (*types.MaintenanceRequest, error) {
	query, args, err := psql().
		Select(maintenanceColumns...).
		From(maintenanceTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate maintenance request query: %w", err)
	}

	var request types.MaintenanceRequest
	err = pgxscan.Get(ctx, r.pool, &request, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch maintenance request: %w", err)
	}

	return &request, nil
}

func (r *MaintenanceRepository) Requests(ctx context.Context, filter types.MaintenanceFilter) ([]*types.MaintenanceRequest, error) {
	builder := psql().
		Select(maintenanceColumns...).
		From(maintenanceTableName).
		OrderBy("created_at desc")

	if filter.TenantID != "" {
		builder = builder.Where(sq.Eq{"tenant_id": filter.TenantID})
	}

	if filter.AssignedTo != "" {
		builder = builder.Where(sq.Eq{"assigned_to": filter.AssignedTo})
	}

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate maintenance requests query: %w", err)
	}

	requests := make([]*types.MaintenanceRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance requests: %w", err)
	}

	return requests, nil
}

func (r *MaintenanceRepository) Create(ctx context.Context, request *types.MaintenanceRequest) error {
	now := time.Now()
	if request.ID == "" {
		request.ID = utils.NanoID()
	}
	if request.Status == "" {
		request.Status = types.MaintenanceStatusSubmitted
	}
	if request.Urgency == "" {
		request.Urgency = types.UrgencyMedium
	}
	request.CreatedAt = now
	request.UpdatedAt = now

	query, args, err := psql().
		Insert(maintenanceTableName).
		SetMap(utils.StructToMap(request)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create maintenance request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create maintenance request")
}

func (r *MaintenanceRepository) Update(ctx context.Context, requestID string, request *types.MaintenanceRequest) error {
	request.ID = requestID
	request.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(maintenanceTableName).
		SetMap(utils.StructToMap(request)).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update maintenance request query for request %s: %w", requestID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update maintenance request")
}

func (r *MaintenanceRepository) Delete(ctx context.Context, requestID string) error {
	query, args, err := psql().
		Delete(maintenanceTableName).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete maintenance request query for request %s: %w", requestID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete maintenance request")
}

func (r *MaintenanceRepository) AppendUpdate(ctx context.Context, update *types.MaintenanceUpdate) error {
	update.ID = utils.NanoID()
	update.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(maintenanceUpdateTableName).
		SetMap(utils.StructToMap(update)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate append maintenance update query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append maintenance update")
}

func (r *MaintenanceRepository) UpdatesByRequest(ctx context.Context, requestID string) ([]*types.MaintenanceUpdate, error) {
	query, args, err := psql().
		Select(maintenanceUpdateColumns...).
		From(maintenanceUpdateTableName).
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("created_at asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate maintenance updates query: %w", err)
	}

	updates := make([]*types.MaintenanceUpdate, 0)
	err = pgxscan.Select(ctx, r.pool, &updates, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch maintenance updates: %w", err)
	}

	return updates, nil
}
