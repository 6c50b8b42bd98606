package repo

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// containsFolded matches rows whose column contains term, ignoring case.
// Both sides are case-folded so non-ASCII letters compare correctly, which
// plain LIKE does not do. term is matched literally: % and _ are not
// wildcards.
func containsFolded(column string, term string) exp.Expression {
	return goqu.L("instr(casefold(?), ?) > 0", goqu.I(column), fold(term))
}

// anyContains ORs containsFolded over columns. An empty term yields nil,
// meaning no filter. Whitespace is matched like any other text.
func anyContains(term string, columns ...string) exp.Expression {
	if term == "" {
		return nil
	}
	exprs := make([]exp.Expression, 0, len(columns))
	for _, c := range columns {
		exprs = append(exprs, containsFolded(c, term))
	}
	return goqu.Or(exprs...)
}
