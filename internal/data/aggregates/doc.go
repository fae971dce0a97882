// Package aggregates owns the transactional write paths of the bot. Each
// write takes the per-user lock, opens one DB transaction and composes the
// table-level repos from internal/data/repos inside it.
package aggregates
