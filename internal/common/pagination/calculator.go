package pagination

// CalculateOffset calculates the database OFFSET value based on page number
// and page size. Page numbers are 1-based, so page 1 has offset 0.
//
// Formula: offset = (page - 1) * perPage
//
// Examples:
//   - Page 1, PerPage 20 -> Offset 0
//   - Page 2, PerPage 20 -> Offset 20
//   - Page 3, PerPage 10 -> Offset 20
func CalculateOffset(page, perPage int) int {
	return (page - 1) * perPage
}

// CalculateTotalPages calculates the total number of pages based on total
// items and page size. Uses ceiling division so all items are included.
//
// Special cases:
//   - If total is 0, returns 1 (always at least 1 page)
//   - If total < perPage, returns 1
//   - Otherwise, returns ceil(total / perPage)
func CalculateTotalPages(total int64, perPage int) int {
	if total == 0 {
		return 1 // Always at least 1 page
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
