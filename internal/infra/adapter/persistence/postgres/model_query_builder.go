package postgres

import (
	"fmt"
	"strings"

	"model-tracker/internal/repository"
)

// ModelQueryBuilder builds the WHERE and pagination clauses shared by the
// model SELECT and COUNT queries. It emits ILIKE conditions and $N placeholders.
type ModelQueryBuilder struct{}

// NewModelQueryBuilder creates a new query builder instance.
func NewModelQueryBuilder() *ModelQueryBuilder {
	return &ModelQueryBuilder{}
}

// BuildWhereClause returns " WHERE ..." with its arguments, or an empty
// clause when the filter has no provider or type.
func (qb *ModelQueryBuilder) BuildWhereClause(filter repository.ModelFilter) (clause string, args []any) {
	var conditions []string
	if filter.Provider != "" {
		args = append(args, "%"+escapeILIKE(filter.Provider)+"%")
		conditions = append(conditions, fmt.Sprintf("provider ILIKE $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, "%"+escapeILIKE(filter.Type)+"%")
		conditions = append(conditions, fmt.Sprintf("model_type ILIKE $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), args
}

// BuildPagination returns the LIMIT/OFFSET clause with placeholders numbered
// from next. A non-positive limit means no LIMIT.
func (qb *ModelQueryBuilder) BuildPagination(filter repository.ModelFilter, next int) string {
	var b strings.Builder
	if filter.Limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT $%d", next)
		next++
	}
	if filter.Offset > 0 {
		fmt.Fprintf(&b, "\nOFFSET $%d", next)
	}
	return b.String()
}

// PaginationArgs returns the arguments matching BuildPagination.
func (qb *ModelQueryBuilder) PaginationArgs(filter repository.ModelFilter) []any {
	var args []any
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
	}
	return args
}

var ilikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeILIKE escapes ILIKE wildcards so user input matches literally.
func escapeILIKE(s string) string {
	return ilikeEscaper.Replace(s)
}
