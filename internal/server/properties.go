package server

import (
	"encoding/json"
	"net/http"

	"rentdesk/pkg/types"
)

func (s *Service) handleListProperties(w http.ResponseWriter, r *http.Request) {
	var filter types.PropertyFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}

	properties, err := s.stores.Properties.Properties(r.Context(), filter)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, properties)
}

func (s *Service) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	var in types.PropertyCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "name, address, type and a positive total_units are required")
		return
	}

	property := &types.Property{
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		Type:        in.Type,
		TotalUnits:  in.TotalUnits,
		VacantUnits: in.TotalUnits,
		Description: in.Description,
		Amenities:   in.Amenities,
		Status:      types.PropertyStatusActive,
	}

	if err := s.stores.Properties.Create(r.Context(), property); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, property)
}

func (s *Service) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := r.PathValue("id")

	property, err := s.stores.Properties.Property(r.Context(), propertyID)
	if err != nil {
		if err == types.ErrPropertyNotFound {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, property)
}

func (s *Service) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	propertyID := r.PathValue("id")

	var in types.PropertyUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := s.stores.Properties.Property(r.Context(), propertyID)
	if err != nil {
		if err == types.ErrPropertyNotFound {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if in.Name != nil {
		property.Name = *in.Name
	}
	if in.Address != nil {
		property.Address = *in.Address
	}
	if in.City != nil {
		property.City = in.City
	}
	if in.Type != nil {
		property.Type = *in.Type
	}
	if in.TotalUnits != nil {
		if *in.TotalUnits <= 0 {
			s.respondError(w, http.StatusBadRequest, "total_units must be positive")
			return
		}
		property.TotalUnits = *in.TotalUnits
		property.VacantUnits = property.TotalUnits - property.OccupiedUnits
	}
	if in.Description != nil {
		property.Description = in.Description
	}
	if in.Amenities != nil {
		property.Amenities = in.Amenities
	}
	if in.Status != nil {
		property.Status = *in.Status
	}

	if err := s.stores.Properties.Update(r.Context(), propertyID, property); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, property)
}

func (s *Service) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	propertyID := r.PathValue("id")

	if _, err := s.stores.Properties.Property(r.Context(), propertyID); err != nil {
		if err == types.ErrPropertyNotFound {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	// A property with leased units cannot be removed.
	tenants, err := s.stores.Tenants.Tenants(r.Context(), types.TenantFilter{PropertyID: propertyID})
	if err != nil {
		s.internalServerError(w, err)
		return
	}
	if len(tenants) > 0 {
		s.respondError(w, http.StatusBadRequest, "property has active tenants")
		return
	}

	if err := s.stores.Properties.Delete(r.Context(), propertyID); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"message": "property deleted"})
}

func (s *Service) handleListUnits(w http.ResponseWriter, r *http.Request) {
	propertyID := r.PathValue("id")

	if _, err := s.stores.Properties.Property(r.Context(), propertyID); err != nil {
		if err == types.ErrPropertyNotFound {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	var filter types.UnitFilter
	if err := decoder.Decode(&filter, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid query parameters")
		return
	}
	filter.PropertyID = propertyID
	if filter.Status != "" && !filter.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid unit status filter")
		return
	}

	units, err := s.stores.Units.Units(r.Context(), filter)
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, units)
}

func (s *Service) handleCreateUnit(w http.ResponseWriter, r *http.Request) {
	if s.requireRole(w, r, types.UserRoleAdmin) == nil {
		return
	}

	propertyID := r.PathValue("id")

	if _, err := s.stores.Properties.Property(r.Context(), propertyID); err != nil {
		if err == types.ErrPropertyNotFound {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	var in types.UnitCreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(in); err != nil {
		s.respondError(w, http.StatusBadRequest, "unit_number is required")
		return
	}

	unit := &types.Unit{
		PropertyID: propertyID,
		UnitNumber: in.UnitNumber,
		Bedrooms:   in.Bedrooms,
		Bathrooms:  in.Bathrooms,
		RentAmount: in.RentAmount,
	}

	if err := s.stores.Units.Create(r.Context(), unit); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, unit)
}
