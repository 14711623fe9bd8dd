package seed

import (
	"context"
	"fmt"
	"time"

	"rentdesk/internal/store"
	"rentdesk/internal/utils"
	"rentdesk/pkg/types"
)

// Demo identities with fixed IDs so seeding is repeatable.
// To generate new IDs: `go run ./cmd/rentdesk nanoid`
const (
	DemoAdminID  = "Xx0XBpBPMMJzSBMzVPWXf"
	DemoStaffID  = "hJ2mKcWFEYLVCKUYjnpQ4"
	DemoTenantID = "q8vNwRuBTGFPyhDeMJ3Zr"

	DemoPropertyID = "T5cphW9mHnVDkEwRAu2bX"
)

// SeedUsers inserts the demo admin, staff and tenant accounts. Existing
// rows are left untouched.
func SeedUsers(ctx context.Context, repo *store.UserRepository) error {
	users := []types.User{
		{
			ID:    DemoAdminID,
			Email: utils.StringPtr("admin@rentdesk.test"),
			Name:  utils.StringPtr("Ada Lindqvist"),
			Role:  types.UserRoleAdmin,
		},
		{
			ID:    DemoStaffID,
			Email: utils.StringPtr("staff@rentdesk.test"),
			Name:  utils.StringPtr("Sam Okafor"),
			Phone: utils.StringPtr("+15550100"),
			Role:  types.UserRoleStaff,
		},
		{
			ID:          DemoTenantID,
			Email:       utils.StringPtr("tenant@rentdesk.test"),
			Name:        utils.StringPtr("Tess Moreau"),
			Phone:       utils.StringPtr("+15550101"),
			Role:        types.UserRoleTenant,
			Apartment:   utils.StringPtr("Sunset Gardens"),
			HouseNumber: utils.StringPtr("2B"),
			Balance:     1200,
		},
	}

	for i := range users {
		user := &users[i]

		_, err := repo.User(ctx, user.ID)
		if err == nil {
			continue
		}
		if err != types.ErrUserNotFound {
			return fmt.Errorf("check user %s: %w", user.ID, err)
		}

		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("create user %s: %w", user.ID, err)
		}
	}

	return nil
}

// SeedProperties inserts one demo property with a handful of units.
func SeedProperties(ctx context.Context, properties *store.PropertyRepository, units *store.UnitRepository) error {
	_, err := properties.Property(ctx, DemoPropertyID)
	if err == nil {
		return nil
	}
	if err != types.ErrPropertyNotFound {
		return fmt.Errorf("check property: %w", err)
	}

	property := &types.Property{
		ID:          DemoPropertyID,
		Name:        "Sunset Gardens",
		Address:     "12 Harbour Road",
		City:        utils.StringPtr("Nairobi"),
		Type:        "apartment",
		TotalUnits:  4,
		VacantUnits: 4,
		Description: utils.StringPtr("Demo apartment block"),
		Amenities:   []string{"parking", "laundry"},
		Status:      types.PropertyStatusActive,
	}

	if err := properties.Create(ctx, property); err != nil {
		return fmt.Errorf("create property: %w", err)
	}

	for i := 1; i <= property.TotalUnits; i++ {
		unit := &types.Unit{
			PropertyID: property.ID,
			UnitNumber: fmt.Sprintf("%d0%d", (i+1)/2, i),
			Bedrooms:   1 + i%2,
			Bathrooms:  1,
			RentAmount: 1000 + float64(i)*150,
		}
		if err := units.Create(ctx, unit); err != nil {
			return fmt.Errorf("create unit %s: %w", unit.UnitNumber, err)
		}
	}

	return nil
}

// SeedTenantProfile leases the first demo unit to the demo tenant.
func SeedTenantProfile(ctx context.Context, tenants *store.TenantRepository) error {
	unitID := types.UnitID(DemoPropertyID, "101")
	start := time.Now().AddDate(0, -3, 0)
	end := start.AddDate(1, 0, 0)

	tenant := &types.Tenant{
		UserID:           DemoTenantID,
		FullName:         utils.StringPtr("Tess Moreau"),
		Phone:            utils.StringPtr("+15550101"),
		EmergencyContact: utils.StringPtr("+15550102"),
		UnitID:           &unitID,
		RentAmount:       1150,
		LeaseStart:       &start,
		LeaseEnd:         &end,
	}

	return tenants.Upsert(ctx, tenant)
}
