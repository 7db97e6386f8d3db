// Package provision defines the schema-provisioning collaborator consumed
// by tenant creation. The control plane treats it as an external port: the
// provisioner owns CREATE SCHEMA and the per-module base tables, while the
// caller only cares about the success flag and the reported schema name.
package provision

import (
	"context"
	"time"
)

// Result reports the outcome of one provisioning run.
type Result struct {
	Success       bool          // schema exists and all requested tables are present
	AlreadyExists bool          // the schema predated this run
	SchemaName    string        // the tenant's dedicated schema
	TablesCreated []string      // tables created during this run
	Duration      time.Duration // wall-clock time spent provisioning
	Errors        []string      // per-step error messages, empty on success
}

// Provisioner creates a tenant's dedicated database schema with one base
// table per requested module code.
type Provisioner interface {
	CreateTenantSchema(ctx context.Context, tenantID string, moduleCodes []string) (Result, error)
}
