package domain

// PageParams bounds a cursor-paginated listing.
type PageParams struct {
	Limit     int
	NextToken *string
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
