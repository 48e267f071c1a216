package shared

// Filter carries the listing options repositories understand: pagination,
// ordering and an optional free-text search. Repositories validate OrderBy
// against their own column whitelist before applying it.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
