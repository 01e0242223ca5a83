package domain

// Metadata describes the page window a paginated query returned.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// NewMetadata derives the window from the total row count the query reported
// via COUNT(*) OVER(). LastPage is zero when there are no records.
func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	lastPage := (totalRecords + pageSize - 1) / pageSize

	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}
