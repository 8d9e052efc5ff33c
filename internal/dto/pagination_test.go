package dto

import "testing"

func TestPaginationRequest(t *testing.T) {
	tests := []struct {
		name                   string
		req                    PaginationRequest
		page, size, wantOffset int
	}{
		{"零值取默认", PaginationRequest{}, 1, DefaultPageSize, 0},
		{"第 3 页", PaginationRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"负数页码", PaginationRequest{Page: -2, PageSize: 5}, 1, 5, 0},
		{"超过上限", PaginationRequest{Page: 2, PageSize: 500}, 2, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.GetPage(); got != tt.page {
				t.Errorf("GetPage() = %d, 期望 %d", got, tt.page)
			}
			if got := tt.req.GetPageSize(); got != tt.size {
				t.Errorf("GetPageSize() = %d, 期望 %d", got, tt.size)
			}
			if got := tt.req.GetOffset(); got != tt.wantOffset {
				t.Errorf("GetOffset() = %d, 期望 %d", got, tt.wantOffset)
			}
		})
	}
}
