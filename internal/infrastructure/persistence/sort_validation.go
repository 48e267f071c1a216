package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a caller-supplied sort direction. Anything
// that is not ASC collapses to DESC, newest-first being the listing default.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField maps a caller-supplied column name onto the whitelist,
// falling back to defaultField. Sort fields end up interpolated into ORDER BY
// clauses, so anything not on the whitelist is rejected rather than escaped.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields are sortable on every listing endpoint.
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PartnerSortFields are the columns partner listings may sort by.
var PartnerSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"status":         true,
	"api_key_prefix": true,
	"key_rotated_at": true,
}
