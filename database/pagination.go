package database

import "njatashiz_server/structs"

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// PageWindow clamps page and pageSize and returns the slice bounds of that
// page within total items together with the pagination metadata.
func PageWindow(total, page, pageSize int) (start, end int, p structs.Pagination) {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}

	// pages past the end are empty; never multiply an unbounded page
	start = total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}
	end = min(start+pageSize, total)

	return start, end, structs.Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Paginate returns the requested page of items
func Paginate[T any](items []T, page, pageSize int) ([]T, structs.Pagination) {
	start, end, p := PageWindow(len(items), page, pageSize)
	return items[start:end], p
}
