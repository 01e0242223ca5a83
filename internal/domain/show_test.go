package domain

import "testing"

func TestShowContainsSeat(t *testing.T) {
	show := Show{SeatRows: 5, SeatsPerRow: 12}

	tests := []struct {
		name  string
		label string
		want  bool
	}{
		{"first seat of first row", "A1", true},
		{"last seat of last row", "E12", true},
		{"two digit seat number", "C10", true},
		{"row beyond layout", "F1", false},
		{"seat number beyond row", "A13", false},
		{"seat number zero", "A0", false},
		{"lowercase row letter", "a1", false},
		{"missing seat number", "A", false},
		{"number before letter", "1A", false},
		{"trailing garbage", "A1x", false},
		{"empty label", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := show.ContainsSeat(tt.label); got != tt.want {
				t.Errorf("ContainsSeat(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestShowFiltersOffset(t *testing.T) {
	f := ShowFilters{Page: 3, PageSize: 10}

	if got := f.Limit(); got != 10 {
		t.Errorf("Limit() = %d, want 10", got)
	}

	if got := f.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}

func TestNewMetadata(t *testing.T) {
	tests := []struct {
		name         string
		totalRecords int
		page         int
		pageSize     int
		wantLastPage int
	}{
		{"exact multiple of page size", 20, 1, 10, 2},
		{"partial last page", 21, 1, 10, 3},
		{"single page", 3, 1, 10, 1},
		{"no records", 0, 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetadata(tt.totalRecords, tt.page, tt.pageSize)

			if m.LastPage != tt.wantLastPage {
				t.Errorf("LastPage = %d, want %d", m.LastPage, tt.wantLastPage)
			}

			if m.TotalRecords != tt.totalRecords {
				t.Errorf("TotalRecords = %d, want %d", m.TotalRecords, tt.totalRecords)
			}
		})
	}
}
