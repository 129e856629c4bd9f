package repository

// pageWindow converts perPage/page filter values into a LIMIT/OFFSET pair.
// perPage defaults to 15 and is capped at 100; page is 1-based.
func pageWindow(perPage, page int) (limit, offset int) {
	limit = perPage
	if limit <= 0 {
		limit = 15
	}
	if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func orderClause(column string, desc bool) string {
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
