package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akoselev/eshop/internal/server/repositories/refreshtokens"
	"github.com/alicebob/miniredis/v2"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

func TestVendedRepositories(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	m, err := NewPostgresRepositoryManager(db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Users(db) == nil {
		t.Fatal("expected users repository")
	}
	if m.RefreshTokens(db) == nil {
		t.Fatal("expected refresh tokens repository")
	}
	if m.Products(db) == nil {
		t.Fatal("expected products repository")
	}
	if m.Categories(db) == nil {
		t.Fatal("expected categories repository")
	}
	if m.Reviews(db) == nil {
		t.Fatal("expected reviews repository")
	}
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		if dir != "." {
			t.Fatalf("expected dir %q, got %q", ".", dir)
		}
		return nil
	}

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected goose.UpContext to be invoked")
	}
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	want := errors.New("migration failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return want
	}

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

func TestWithRedisSessions(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	base := &PostgresRepositoryManager{}
	m := WithRedisSessions(base, client)

	if _, ok := m.RefreshTokens(db).(*refreshtokens.RedisRepository); !ok {
		t.Fatal("expected Redis-backed refresh token repository")
	}
	if m.Users(db) == nil {
		t.Fatal("expected users repository from the wrapped manager")
	}
}
