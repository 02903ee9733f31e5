package repository

import (
	"fmt"
	"strings"

	"addressbook-backend/internal/domains/addressbook"
	"addressbook-backend/internal/shared/utils"
)

// entryColumns is selected from an address_book_entries row aliased "e"
// joined with jobs "j" and departments "d". Order matches scanEntry.
const entryColumns = `e.id, e.full_name, e.job_id, j.title, e.department_id, d.name,
       e.mobile_number, e.date_of_birth, e.address, e.email, e.password_hash,
       e.photo_path, e.age`

const entryJoins = `JOIN jobs j ON j.id = e.job_id
JOIN departments d ON d.id = e.department_id`

const selectEntries = `SELECT ` + entryColumns + `
FROM address_book_entries e
` + entryJoins

// buildSearchQuery returns the SELECT for filter and its positional args.
// The term is matched with strpos so LIKE wildcards in user input stay literal.
func buildSearchQuery(filter addressbook.SearchFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if term := strings.TrimSpace(filter.Term); term != "" {
		args = append(args, strings.ToLower(term))
		p := len(args)
		where = append(where, "("+utils.JoinWithOr([]string{
			fmt.Sprintf("strpos(LOWER(e.full_name), $%d) > 0", p),
			fmt.Sprintf("strpos(LOWER(e.email), $%d) > 0", p),
			fmt.Sprintf("strpos(LOWER(COALESCE(e.address, '')), $%d) > 0", p),
			fmt.Sprintf("strpos(e.mobile_number, $%d) > 0", p),
		})+")")
	}

	if filter.StartDate != nil {
		args = append(args, utils.DateOnly(*filter.StartDate))
		where = append(where, fmt.Sprintf("e.date_of_birth >= $%d", len(args)))
	}

	if filter.EndDate != nil {
		args = append(args, utils.DateOnly(*filter.EndDate))
		where = append(where, fmt.Sprintf("e.date_of_birth <= $%d", len(args)))
	}

	query := selectEntries
	if len(where) > 0 {
		query += "\nWHERE " + utils.JoinWithAnd(where)
	}
	return query + "\nORDER BY e.id", args
}
