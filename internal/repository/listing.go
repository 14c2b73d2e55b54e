package repository

import (
	"strings"
)

// customerSortColumns maps accepted sort keys to qualified columns.
// Anything outside this list falls back to c.id.
var customerSortColumns = map[string]string{
	"id":           "c.id",
	"first_name":   "c.first_name",
	"last_name":    "c.last_name",
	"c.id":         "c.id",
	"c.first_name": "c.first_name",
	"c.last_name":  "c.last_name",
}

// SortColumn returns the allow-listed column for sort, or c.id
func SortColumn(sort string) string {
	if col, ok := customerSortColumns[strings.ToLower(strings.TrimSpace(sort))]; ok {
		return col
	}
	return "c.id"
}

// SortOrder normalizes order to ASC or DESC. Anything but DESC is ASC.
func SortOrder(order string) string {
	if strings.EqualFold(strings.TrimSpace(order), "DESC") {
		return "DESC"
	}
	return "ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into an ILIKE pattern matching it as a literal substring
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
