package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fieldline/platform/internal/apperr"
	"github.com/fieldline/platform/internal/repository"
	"github.com/fieldline/platform/internal/utils"
)

// sharedAuthSchema is always browsable regardless of module grants.
const sharedAuthSchema = "auth"

// TableSchema is the metadata returned by the data browser for one table.
type TableSchema struct {
	Schema  string              `json:"schema"`
	Table   string              `json:"table"`
	Columns []repository.Column `json:"columns"`
	Indexes []repository.Index  `json:"indexes"`
}

// SchemaGuard gates every ad-hoc schema/table read issued through the
// admin data browser. A request must name a schema on the tenant's
// allowlist and pass strict identifier validation before any catalog
// query runs; identifiers cannot be bound as query parameters, so the
// pattern check is the injection guard.
type SchemaGuard struct {
	tenants TenantStore
	modules ModuleStore
	catalog CatalogStore
}

func NewSchemaGuard(tenants TenantStore, modules ModuleStore, catalog CatalogStore) *SchemaGuard {
	return &SchemaGuard{tenants: tenants, modules: modules, catalog: catalog}
}

// Authorize checks that the tenant may browse the named schema and table.
// The allowed-schema set is the tenant's own dedicated schema, the shared
// auth schema and the codes of the tenant's currently enabled modules.
// Identifier validation runs first and rejects regardless of whether the
// underlying table exists.
func (g *SchemaGuard) Authorize(ctx context.Context, tenantID, schema, table string) error {
	if !utils.ValidIdentifier(schema) || !utils.ValidIdentifier(table) {
		return apperr.New(apperr.Forbidden, "invalid schema or table identifier")
	}
	t, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.New(apperr.NotFound, "tenant not found")
		}
		return err
	}
	if schema == t.SchemaName() || schema == sharedAuthSchema {
		return nil
	}
	codes, err := g.modules.EnabledCodesForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	for _, code := range codes {
		if schema == code {
			return nil
		}
	}
	return apperr.New(apperr.Forbidden, "schema is not accessible for this tenant")
}

// TableSchemaFor returns column and index metadata for an allowlisted
// table. A schema that passes authorization but contains no such table
// reports NotFound.
func (g *SchemaGuard) TableSchemaFor(ctx context.Context, tenantID, schema, table string) (TableSchema, error) {
	if err := g.Authorize(ctx, tenantID, schema, table); err != nil {
		return TableSchema{}, err
	}
	cols, err := g.catalog.Columns(ctx, schema, table)
	if err != nil {
		return TableSchema{}, err
	}
	if len(cols) == 0 {
		return TableSchema{}, apperr.New(apperr.NotFound, "table not found")
	}
	idx, err := g.catalog.Indexes(ctx, schema, table)
	if err != nil {
		return TableSchema{}, err
	}
	return TableSchema{Schema: schema, Table: table, Columns: cols, Indexes: idx}, nil
}

// AllowedSchemas returns the full allowlist for a tenant, for the browser
// UI's schema picker.
func (g *SchemaGuard) AllowedSchemas(ctx context.Context, tenantID string) ([]string, error) {
	t, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, "tenant not found")
		}
		return nil, err
	}
	codes, err := g.modules.EnabledCodesForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := append([]string{t.SchemaName(), sharedAuthSchema}, codes...)
	return out, nil
}
