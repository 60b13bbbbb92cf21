// Package jsontree searches schema-unstable JSON response trees for named
// fields. Upstream generation APIs move fields around between releases (top
// level, under "data", inside result arrays), so extraction never assumes a
// fixed shape: known aliases are checked at each level first, then the search
// descends depth-first into every child value.
package jsontree
