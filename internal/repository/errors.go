// Package repository provides data access to the control-plane database.
// Repositories are thin structs over *sql.DB; they return sql.ErrNoRows
// for missing rows and the sentinel errors below for constraint
// violations, leaving the user-facing error taxonomy to the service layer.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert collides with the unique email
// constraint on users or invitations.
var ErrEmailExists = errors.New("email already exists")

// ErrTenantExists is returned when a tenant insert collides with the
// unique name or slug constraint.
var ErrTenantExists = errors.New("tenant already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
