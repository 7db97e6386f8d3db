package provision

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/fieldline/platform/internal/model"
	"github.com/fieldline/platform/internal/utils"
)

// MySQLProvisioner provisions tenant schemas on the same MySQL server that
// hosts the control-plane database. The pool's user needs server-wide
// CREATE privileges.
type MySQLProvisioner struct{ DB *sql.DB }

func NewMySQLProvisioner(db *sql.DB) *MySQLProvisioner { return &MySQLProvisioner{DB: db} }

// CreateTenantSchema creates the tenant's dedicated schema and one base
// table per module code. The run is idempotent: an existing schema is
// reported through AlreadyExists and missing tables are still created.
// Per-table failures are collected rather than aborting the run; Success
// is true only when every step completed.
func (p *MySQLProvisioner) CreateTenantSchema(ctx context.Context, tenantID string, moduleCodes []string) (Result, error) {
	start := time.Now()
	res := Result{SchemaName: model.SchemaNameForTenant(tenantID)}

	// Schema and table names are interpolated into DDL below, so they are
	// re-validated here even though they come from trusted sources.
	if !utils.ValidIdentifier(res.SchemaName) {
		res.Errors = append(res.Errors, fmt.Sprintf("invalid schema name %q", res.SchemaName))
		res.Duration = time.Since(start)
		return res, nil
	}

	var n int
	err := p.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.schemata WHERE schema_name = ?",
		res.SchemaName).Scan(&n)
	if err != nil {
		res.Errors = append(res.Errors, "schema lookup: "+err.Error())
		res.Duration = time.Since(start)
		return res, nil
	}
	res.AlreadyExists = n > 0

	if !res.AlreadyExists {
		ddl := fmt.Sprintf("CREATE SCHEMA `%s` DEFAULT CHARACTER SET utf8mb4", res.SchemaName)
		if _, err := p.DB.ExecContext(ctx, ddl); err != nil {
			res.Errors = append(res.Errors, "create schema: "+err.Error())
			res.Duration = time.Since(start)
			return res, nil
		}
	}

	for _, code := range moduleCodes {
		if !utils.ValidIdentifier(code) {
			res.Errors = append(res.Errors, fmt.Sprintf("invalid module code %q", code))
			continue
		}
		table := code + "_records"
		ddl := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS `%s`.`%s` ("+
				" id CHAR(36) PRIMARY KEY,"+
				" tenantId CHAR(36) NOT NULL,"+
				" payload JSON NULL,"+
				" created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,"+
				" updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,"+
				" INDEX idx_tenant (tenantId)"+
				") CHARACTER SET utf8mb4",
			res.SchemaName, table)
		if _, err := p.DB.ExecContext(ctx, ddl); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("create table %s: %v", table, err))
			continue
		}
		res.TablesCreated = append(res.TablesCreated, table)
	}

	res.Success = len(res.Errors) == 0
	res.Duration = time.Since(start)
	log.Printf("provisioner: schema=%s success=%t tables=%d duration=%s",
		res.SchemaName, res.Success, len(res.TablesCreated), res.Duration)
	return res, nil
}
