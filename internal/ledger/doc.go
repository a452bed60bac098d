// Package ledger persists the per-log counters (total, active, deleted,
// next id) as a small fixed-size file rewritten wholesale after each
// mutation.
package ledger
