package categories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akoselev/eshop/internal/common"
	"github.com/akoselev/eshop/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+categories\b.*RETURNING\s+id\s*$`).
		WithArgs("Phones", "phones", "img.png", []byte(`[{"title":"smart"}]`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))

	c, err := repo.Create(context.Background(), &models.Category{
		Title:         "Phones",
		OriginTitle:   "phones",
		URLImg:        "img.png",
		Subcategories: []models.Subcategory{{Title: "smart"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != "c1" {
		t.Fatalf("expected id c1, got %q", c.ID)
	}
}

func TestCreate_DuplicateOriginTitle(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+categories`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Category{Title: "Phones", OriginTitle: "phones"})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "origin_title", "url_img", "subcategories"}).
		AddRow("c1", "Laptops", "laptops", "", []byte(`[]`)).
		AddRow("c2", "Phones", "phones", "", []byte(`[{"title":"smart"}]`))

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+categories\s+ORDER\s+BY\s+title`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if len(got[1].Subcategories) != 1 || got[1].Subcategories[0].Title != "smart" {
		t.Fatalf("unexpected subcategories: %+v", got[1].Subcategories)
	}
}

func TestGetByOriginTitle_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+categories\s+WHERE\s+origin_title`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByOriginTitle(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
