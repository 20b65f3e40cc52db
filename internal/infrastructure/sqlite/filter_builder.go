package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/JulHeg/LeRobotPanorama/internal/api/util"
)

// datetimeFields defines fields that contain datetime values and need
// normalization before string comparison in SQLite
var datetimeFields = map[string]bool{
	"start_time": true,
	"end_time":   true,
	"created_at": true,
	"updated_at": true,
}

// normalizeDateTime parses common user-supplied datetime formats and
// rewrites them in the space-separated form that compares correctly
// against the values SQLite stores.
func normalizeDateTime(value string) string {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC().Format("2006-01-02 15:04:05")
		}
	}

	// If parsing fails, compare the raw value
	return value
}

// BuildFilterClause builds a SQL WHERE clause from a QueryFilter
func BuildFilterClause(f util.QueryFilter) (string, []interface{}) {
	value := f.Value
	if datetimeFields[f.Field] {
		value = normalizeDateTime(value)
	}

	switch f.Operator {
	case util.OpEq:
		return fmt.Sprintf("%s = ?", f.Field), []interface{}{value}
	case util.OpNe:
		return fmt.Sprintf("%s != ?", f.Field), []interface{}{value}
	case util.OpGt:
		return fmt.Sprintf("%s > ?", f.Field), []interface{}{value}
	case util.OpGte:
		return fmt.Sprintf("%s >= ?", f.Field), []interface{}{value}
	case util.OpLt:
		return fmt.Sprintf("%s < ?", f.Field), []interface{}{value}
	case util.OpLte:
		return fmt.Sprintf("%s <= ?", f.Field), []interface{}{value}
	case util.OpIsNull:
		return fmt.Sprintf("%s IS NULL", f.Field), nil
	case util.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", f.Field), nil
	default:
		return "", nil
	}
}

// ApplyFilters applies QueryFilters to a query and returns the modified query and args
func ApplyFilters(query string, args []interface{}, filters []util.QueryFilter) (string, []interface{}) {
	for _, f := range filters {
		clause, filterArgs := BuildFilterClause(f)
		if clause != "" {
			query += " AND " + clause
			args = append(args, filterArgs...)
		}
	}
	return query, args
}

// ApplyOrdering applies OrderClauses to a query
func ApplyOrdering(query string, orders []util.OrderClause, defaultOrder string) string {
	if len(orders) > 0 {
		orderClauses := make([]string, 0, len(orders))
		for _, o := range orders {
			direction := "ASC"
			if o.Direction == util.OrderDesc {
				direction = "DESC"
			}
			orderClauses = append(orderClauses, fmt.Sprintf("%s %s", o.Field, direction))
		}
		return query + " ORDER BY " + strings.Join(orderClauses, ", ")
	}
	return query + " ORDER BY " + defaultOrder
}

// ApplyPagination applies page/perPage to a query
func ApplyPagination(query string, args []interface{}, page, perPage int) (string, []interface{}) {
	if perPage > 0 {
		query += " LIMIT ?"
		args = append(args, perPage)

		if page > 1 {
			offset := (page - 1) * perPage
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}
