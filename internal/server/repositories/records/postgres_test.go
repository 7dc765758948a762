package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taxdesk/internal/common"
	"github.com/dmitrijs2005/taxdesk/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var recordColumns = []string{"id", "name", "gender", "request_date", "country", "country_id", "attrs"}

const selectQ = `(?s)^SELECT\s+id,\s*name,\s*COALESCE\(gender,\s*''\),\s*COALESCE\(request_date,\s*''\),\s*country,\s*COALESCE\(country_id,\s*''\),\s*attrs\s+FROM\s+records`

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns).
		AddRow("r1", "Acme", "Male", "2024-01-05", "Latvia", "c1", []byte(`{"vat":"LV1"}`)).
		AddRow("r2", "", "", "", "", "", []byte(`{}`))
	mock.ExpectQuery(selectQ + `\s+ORDER\s+BY\s+position\s*$`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if string(got[0].Attrs["vat"]) != `"LV1"` {
		t.Fatalf("attrs not decoded: %+v", got[0].Attrs)
	}
	if got[1].Attrs != nil {
		t.Fatalf("empty attrs should decode to nil, got %+v", got[1].Attrs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestList_BadAttrs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns).AddRow("r1", "Acme", "", "", "", "", []byte(`[1]`))
	mock.ExpectQuery(selectQ).WillReturnRows(rows)

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected attrs decode error")
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns).AddRow("r1", "Acme", "Female", "", "Latvia", "c1", []byte(`{}`))
	mock.ExpectQuery(selectQ + `\s+WHERE\s+id\s*=\s*\$1\s*$`).WithArgs("r1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "Acme" || got.Gender != "Female" || got.CountryID != "c1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+records\s*\(id,\s*name,\s*gender,\s*request_date,\s*country,\s*country_id,\s*attrs\)\s*VALUES`
	mock.ExpectExec(q).
		WithArgs("r1", "Acme", "Male", "2024-01-05", "Latvia", "c1", []byte("{}")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.Record{ID: "r1", Name: "Acme", Gender: "Male", RequestDate: "2024-01-05", Country: "Latvia", CountryID: "c1"}
	if _, err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	q := `(?s)^UPDATE\s+records\s+SET\s+name\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1\s*$`
	rec := &models.Record{ID: "r1", Name: "Acme", CountryID: "c1", Country: "Latvia"}

	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).
			WithArgs("r1", "Acme", "", "", "Latvia", "c1", []byte("{}")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.Update(context.Background(), rec); err != nil {
			t.Fatalf("Update error: %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

		if err := repo.Update(context.Background(), rec); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("expected ErrorNotFound, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(q).WillReturnError(errors.New("boom"))

		if err := repo.Update(context.Background(), rec); err == nil || errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestRenameCountry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+records\s+SET\s+country\s*=\s*\$2.*WHERE\s+country_id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("c1", "Latvija").WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.RenameCountry(context.Background(), "c1", "Latvija")
	if err != nil {
		t.Fatalf("RenameCountry error: %v", err)
	}
	if n != 3 {
		t.Fatalf("rows = %d, want 3", n)
	}
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+records`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}
}
