// Package taskstore keeps a SQLite-backed history of pipeline runs. The
// single-slot resume file answers "what was the last task"; this store
// answers everything else: past runs, their outcomes, and where their
// artifacts ended up.
package taskstore
