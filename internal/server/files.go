package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"rentdesk/internal/utils"
	"rentdesk/pkg/types"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type fileCategory string

const (
	fileCategoryImages    fileCategory = "images"
	fileCategoryDocuments fileCategory = "documents"
	fileCategoryArchives  fileCategory = "archives"
)

var allowedExtensions = map[fileCategory][]string{
	fileCategoryImages:    {"png", "jpg", "jpeg", "gif", "bmp"},
	fileCategoryDocuments: {"pdf", "doc", "docx", "txt", "rtf"},
	fileCategoryArchives:  {"zip", "rar"},
}

// extensionAllowed reports whether the filename's extension is on the
// category's allow-list. An empty category accepts any listed extension.
func extensionAllowed(category fileCategory, filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return false
	}

	categories := []fileCategory{category}
	if category == "" {
		categories = []fileCategory{fileCategoryImages, fileCategoryDocuments, fileCategoryArchives}
	}

	for _, c := range categories {
		for _, allowed := range allowedExtensions[c] {
			if ext == allowed {
				return true
			}
		}
	}

	return false
}

func (s *Service) readUpload(w http.ResponseWriter, r *http.Request, field string, category fileCategory) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("missing %s file field", field))
		return nil, nil, false
	}

	// Reject before anything touches the blob store.
	if !extensionAllowed(category, header.Filename) {
		file.Close()
		s.respondError(w, http.StatusBadRequest, "file type not allowed")
		return nil, nil, false
	}

	return file, header, true
}

func objectKey(folder, filename string) string {
	return fmt.Sprintf("%s/%s_%s", folder, utils.NanoID(), path.Base(filename))
}

func contentTypeFor(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *Service) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())

	// Parse with the capped size before reading any form fields.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	category := fileCategory(r.FormValue("file_type"))
	if category != "" {
		if _, ok := allowedExtensions[category]; !ok {
			s.respondError(w, http.StatusBadRequest, "unknown file_type")
			return
		}
	}

	file, header, ok := s.readUpload(w, r, "file", category)
	if !ok {
		return
	}
	defer file.Close()

	folder := r.FormValue("folder_name")
	if folder == "" {
		folder = "uploads/" + caller.ID
	}

	url, err := s.objects.Upload(r.Context(), objectKey(folder, header.Filename), file, contentTypeFor(header))
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"file_url": url,
		"filename": header.Filename,
	})
}

func (s *Service) handleLeaseUpload(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	tenant, err := s.stores.Tenants.Tenant(r.Context(), userID)
	if err != nil {
		if err == types.ErrTenantNotFound {
			s.respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	file, header, ok := s.readUpload(w, r, "lease_document", fileCategoryDocuments)
	if !ok {
		return
	}
	defer file.Close()

	url, err := s.objects.Upload(r.Context(), objectKey("leases/"+userID, header.Filename), file, contentTypeFor(header))
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	uploadedAt := time.Now()
	if err := s.stores.Tenants.SetLeaseDocument(r.Context(), userID, url, uploadedAt); err != nil {
		s.internalServerError(w, err)
		return
	}

	// A signed lease moves the unit out of the vacant pool.
	if tenant.UnitID != nil && *tenant.UnitID != "" {
		if err := s.stores.Units.SetStatus(r.Context(), *tenant.UnitID, types.UnitStatusOccupied); err != nil {
			s.internalServerError(w, err)
			return
		}
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"lease_document_url": url,
		"uploaded_at":        uploadedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Service) handleMaintenancePhotoUpload(w http.ResponseWriter, r *http.Request) {
	caller := currentUser(r.Context())
	userID := r.PathValue("userID")

	if caller.Role == types.UserRoleTenant && caller.ID != userID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	file, header, ok := s.readUpload(w, r, "maintenance_photo", fileCategoryImages)
	if !ok {
		return
	}
	defer file.Close()

	requestID := r.FormValue("request_id")
	if requestID == "" {
		s.respondError(w, http.StatusBadRequest, "request_id is required")
		return
	}

	request, err := s.stores.Maintenance.Request(r.Context(), requestID)
	if err != nil {
		if err == types.ErrRequestNotFound {
			s.respondError(w, http.StatusNotFound, "maintenance request not found")
			return
		}
		s.internalServerError(w, err)
		return
	}

	if caller.Role == types.UserRoleTenant && request.TenantID != caller.ID {
		s.respondError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	url, err := s.objects.Upload(r.Context(), objectKey("maintenance/"+requestID, header.Filename), file, contentTypeFor(header))
	if err != nil {
		s.internalServerError(w, err)
		return
	}

	request.PhotoURLs = append(request.PhotoURLs, url)
	if err := s.stores.Maintenance.Update(r.Context(), requestID, request); err != nil {
		s.internalServerError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"photo_url":  url,
		"photo_urls": request.PhotoURLs,
	})
}
