// Package storage is the gateway to the authoritative relational store.
//
// It maps the career domain types onto bun models and exposes
// load/create/patch/delete plus counts per entity, always scoped by the
// owning user's email and the parent slug chain. Absence anywhere along the
// chain surfaces as career.ErrNotFound; the caller decides whether that is
// an error or a silent no-op.
//
// Rows reference parents by numeric id so renames (which regenerate slugs)
// never rewrite child rows. Deletes cascade bottom-up inside a transaction.
package storage
