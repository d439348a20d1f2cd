package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"go.uber.org/zap/zaptest"
)

func TestMigrationsAreOrderedAndEmbedded(t *testing.T) {
	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations returned error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	if migrations[0].Version != "0001_create_users_and_articles.sql" {
		t.Fatalf("unexpected first migration %q", migrations[0].Version)
	}
	if !strings.Contains(migrations[0].SQL, "REFERENCES users (id)") {
		t.Fatal("articles must reference users")
	}
}

func TestMigrateAppliesPendingMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	migrations, _ := Migrations()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	for _, m := range migrations {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO schema_migrations`).
			WithArgs(m.Version).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectCommit()
	}

	applied, err := Migrate(context.Background(), mock, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if applied != len(migrations) {
		t.Fatalf("expected %d applied, got %d", len(migrations), applied)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrateSkipsRecordedMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	migrations, _ := Migrations()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	for _, m := range migrations {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO schema_migrations`).
			WithArgs(m.Version).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectRollback()
	}

	applied, err := Migrate(context.Background(), mock, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected nothing applied, got %d", applied)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrateReportsFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnError(errors.New("permission denied"))

	if _, err := Migrate(context.Background(), mock, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error")
	}
}
