// Package testutil holds helpers shared by backend tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"gold-economy/internal/config"
	"gold-economy/internal/ids"
	"gold-economy/internal/store"

	"github.com/jackc/pgx/v5"
)

var schemaName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// OpenTestPostgres opens a Postgres store confined to a fresh schema that is
// dropped when the test ends. Without TEST_POSTGRES_DSN the test is skipped.
func OpenTestPostgres(t *testing.T) *store.Postgres {
	t.Helper()
	cfg, err := config.LoadTest()
	if errors.Is(err, config.ErrNoTestPostgres) {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	schema := strings.ToLower(cfg.SchemaPrefix + "_" + ids.New())
	if !schemaName.MatchString(schema) {
		t.Fatalf("schema %q is not a plain identifier", schema)
	}
	ctx := context.Background()
	if err := execAdmin(ctx, cfg.PostgresDSN, "CREATE SCHEMA %s", schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	st, err := store.OpenPostgres(ctx, withSearchPath(cfg.PostgresDSN, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
		if err := execAdmin(context.Background(), cfg.PostgresDSN, "DROP SCHEMA %s CASCADE", schema); err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
	})
	return st
}

// execAdmin runs one schema statement on a short-lived connection.
func execAdmin(ctx context.Context, dsn, format, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, fmt.Sprintf(format, pgx.Identifier{schema}.Sanitize()))
	return err
}

func withSearchPath(dsn, schema string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "search_path=" + url.QueryEscape(schema)
}
