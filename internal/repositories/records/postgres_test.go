package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db, "app_config", nil)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	repo.now = func() time.Time { return fixedNow }
	return repo, mock, db
}

var upsertRe = regexp.MustCompile(`INSERT INTO app_config .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)\s+ON CONFLICT \(id\)\s+DO UPDATE SET`)

func TestPostgres_CreateOrUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).
		WithArgs("r1", "/tmp/example.txt", "Hello, World!", nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateOrUpdate(context.Background(), &models.Record{
		ID: "r1", FilePath: "/tmp/example.txt", Content: "Hello, World!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_CreateOrUpdate_DBExecError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).WillReturnError(errors.New("db is down"))

	err := repo.CreateOrUpdate(context.Background(), &models.Record{ID: "r1", FilePath: "p"})
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgres_CreateOrUpdate_RowsAffectedError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))

	err := repo.CreateOrUpdate(context.Background(), &models.Record{ID: "r1", FilePath: "p"})
	if err == nil || !regexp.MustCompile(`rows affected error: .*rows-err`).MatchString(err.Error()) {
		t.Fatalf("expected rows affected error, got %v", err)
	}
}

func TestPostgres_CreateOrUpdate_UnexpectedRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(upsertRe.String()).WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.CreateOrUpdate(context.Background(), &models.Record{ID: "r1", FilePath: "p"})
	if err == nil || !regexp.MustCompile(`unexpected rows affected: 2`).MatchString(err.Error()) {
		t.Fatalf("expected unexpected rows affected error, got %v", err)
	}
}

func TestPostgres_GetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, file_path, content, comment, created_at, updated_at FROM app_config WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostgres_List(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "file_path", "content", "comment", "created_at", "updated_at"}).
		AddRow("r1", "a.txt", "A", nil, fixedNow, fixedNow).
		AddRow("r2", "b.txt", "B", "note", fixedNow, fixedNow)
	mock.ExpectQuery(`SELECT .* FROM app_config ORDER BY created_at, id`).WillReturnRows(rows)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].FilePath != "a.txt" || list[1].Comment != "note" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Comment != "" {
		t.Fatalf("NULL comment should scan as empty, got %q", list[0].Comment)
	}
}

func TestPostgres_List_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM app_config`).WillReturnError(errors.New("boom"))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestPostgres_Delete(t *testing.T) {
	cases := []struct {
		name    string
		result  sql.Result
		wantErr error
		wantMsg string
	}{
		{name: "ok", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "too many", result: sqlmock.NewResult(0, 3), wantMsg: "unexpected rows affected: 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(`DELETE FROM app_config WHERE id = \$1`).WithArgs("r1").WillReturnResult(tc.result)

			err := repo.Delete(context.Background(), "r1")
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
			case tc.wantMsg != "":
				if err == nil || err.Error() != tc.wantMsg {
					t.Fatalf("want %q, got %v", tc.wantMsg, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

// Ids are free-form text; ids outside the UUID shape are plain lookups.
func TestPostgres_FreeFormIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()
	ctx := context.Background()

	mock.ExpectExec(upsertRe.String()).
		WithArgs("settings-main", "/tmp/settings.txt", "x", nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM app_config WHERE id = \$1`).
		WithArgs("bogus").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM app_config WHERE id = \$1`).
		WithArgs("bogus").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.CreateOrUpdate(ctx, &models.Record{ID: "settings-main", FilePath: "/tmp/settings.txt", Content: "x"}); err != nil {
		t.Fatalf("save with text id: %v", err)
	}
	if _, err := repo.GetByID(ctx, "bogus"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("GetByID: want ErrorNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "bogus"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("Delete: want ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
