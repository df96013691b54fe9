package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// schemaParams fills the placeholders of the embedded DDL templates.
type schemaParams struct {
	IDColumn string
}

// Bootstrap ensures the compositions table exists for the given dialect and identity strategy.
//
// Every statement is "create if not present", so running it on each start is safe.
// An existing table whose id column does not match the strategy is rejected.
// All failures wrap [shared.ErrStartupFailure].
func Bootstrap(ctx context.Context, db *sql.DB, dialect shared.Dialect, strategy models.Strategy) error {
	statements, err := schemaStatements(dialect, strategy)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStartupFailure, err)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: failed to execute statement: %w\nStatement: %s", shared.ErrStartupFailure, err, stmt)
		}
	}

	if err := verifyIDColumn(ctx, db, dialect, strategy); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStartupFailure, err)
	}
	return nil
}

// schemaStatements renders the dialect's DDL template and splits it into executable statements.
func schemaStatements(dialect shared.Dialect, strategy models.Strategy) ([]string, error) {
	content, err := schemaFiles.ReadFile("sql/" + string(dialect) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for dialect %s: %w", dialect, err)
	}

	tmpl, err := template.New(string(dialect)).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, schemaParams{IDColumn: strategy.Column(dialect)}); err != nil {
		return nil, fmt.Errorf("failed to render schema: %w", err)
	}

	var statements []string
	for _, stmt := range strings.Split(removeComments(buf.String()), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// verifyIDColumn compares the declared type of compositions.id with what the strategy writes.
func verifyIDColumn(ctx context.Context, db *sql.DB, dialect shared.Dialect, strategy models.Strategy) error {
	var query string
	switch dialect {
	case shared.DialectPostgres:
		query = `SELECT data_type FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = 'compositions' AND column_name = 'id'`
	default:
		query = `SELECT type FROM pragma_table_info('compositions') WHERE name = 'id'`
	}

	var declared string
	if err := db.QueryRowContext(ctx, query).Scan(&declared); err != nil {
		return fmt.Errorf("failed to inspect compositions table: %w", err)
	}

	declared = strings.ToLower(declared)
	numeric := strings.Contains(declared, "int")
	if numeric != (strategy.Kind() == models.KindSequential) {
		return fmt.Errorf("compositions.id is %s, which does not fit the %s identity strategy", declared, strategy.Kind())
	}
	return nil
}

// removeComments removes SQL line comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string

	for _, line := range lines {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
