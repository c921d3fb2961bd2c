package services

import "fmt"

// countRowsQuery counts the rows of one catalog table. Table names come from
// the catalog, never from user input.
func countRowsQuery(table string) string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table))
}

// quoteIdent double-quotes an identifier; "time" is a reserved word on
// some engines.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
