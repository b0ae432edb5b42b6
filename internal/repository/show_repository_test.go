package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
)

// newTestClient wires a Client over a sqlmock database. NewClient runs the
// SELECT 1 probe, so that expectation is registered up front.
func newTestClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	c, err := NewClient(db, "localhost:3306")
	require.NoError(t, err)
	return c, mock
}

var showRowColumns = []string{
	"id", "title", "media_type", "tentpole", "relationship_level", "show_type", "region",
	"primary_education", "secondary_education", "evergreen_production_staff_name", "genre_name", "qbo_show_name",
	"has_sponsorship_revenue", "has_non_evergreen_revenue", "requires_partner_access", "has_branded_revenue",
	"has_marketing_revenue", "has_web_mgmt_revenue", "is_original", "isUndersized", "isActive", "annual_usd",
}

// addShowRow appends one result row in showSelectColumns order, with every
// non-key column at its zero value.
func addShowRow(rows *sqlmock.Rows, id, title, annualUSD string) *sqlmock.Rows {
	return rows.AddRow(
		id, title, "", false, "", "", "",
		"", "", "", "", "",
		false, false, false, false,
		false, false, false, false, false, annualUSD,
	)
}

func str(s string) *string { return &s }
func boolean(b bool) *bool { return &b }

func TestCreateShowEncodesRevenue(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM shows WHERE title = ?")).
		WithArgs("The Signal").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO shows").
		WithArgs(
			sqlmock.AnyArg(), // generated id
			"The Signal", "", 0, "", "", "",
			"", "", "", "", "",
			0, 0, 0, 0,
			0, 0, 0, 0, 0,
			`{"2023":"100","2024":"0","2025":"0"}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+showSelectColumns+" FROM shows WHERE id = ?")).
		WillReturnRows(addShowRow(sqlmock.NewRows(showRowColumns), "abc123", "The Signal", `{"2023":"100","2024":"0","2025":"0"}`))

	s, err := repo.Create(context.Background(), &model.ShowInput{
		Title:       str("The Signal"),
		Revenue2023: money("100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "The Signal", s.Title)
	assert.Equal(t, "100", s.Revenue2023)
	assert.Equal(t, "0", s.Revenue2024)
	assert.Equal(t, "0", s.Revenue2025)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShowDuplicateTitle(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM shows WHERE title = ?")).
		WithArgs("The Signal").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))
	mock.ExpectRollback()

	s, err := repo.Create(context.Background(), &model.ShowInput{Title: str("The Signal")})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrDuplicateTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateShowEmptyPayloadNeverReachesStorage(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	s, err := repo.Update(context.Background(), "abc123", &model.ShowInput{})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNoUpdateData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A partial revenue update rewrites the whole annual_usd map: years absent
// from the payload come back as "0" even if storage held other values.
func TestUpdateShowRevenueOverwritesWholeMap(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shows SET `annual_usd` = ? WHERE id = ?")).
		WithArgs(`{"2023":"0","2024":"50","2025":"0"}`, "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+showSelectColumns+" FROM shows WHERE id = ?")).
		WithArgs("abc123").
		WillReturnRows(addShowRow(sqlmock.NewRows(showRowColumns), "abc123", "The Signal", `{"2023":"0","2024":"50","2025":"0"}`))

	s, err := repo.Update(context.Background(), "abc123", &model.ShowInput{Revenue2024: money("50")})
	require.NoError(t, err)
	assert.Equal(t, "0", s.Revenue2023)
	assert.Equal(t, "50", s.Revenue2024)
	assert.Equal(t, "0", s.Revenue2025)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateShowNotFound(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shows SET `title` = ? WHERE id = ?")).
		WithArgs("Renamed", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	s, err := repo.Update(context.Background(), "missing", &model.ShowInput{Title: str("Renamed")})
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteShowNotFound(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shows WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFoundReturnsNilNil(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+showSelectColumns+" FROM shows WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(showRowColumns))

	s, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, s)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// GetAll degrades statement failures to an empty listing; callers never see
// the underlying query error.
func TestGetAllSwallowsStatementErrors(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectQuery("SELECT (.+) FROM shows").
		WillReturnError(errors.New("Table 'podcast.shows' doesn't exist"))

	shows, err := repo.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []model.Show{}, shows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllDecodesRevenue(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	rows := sqlmock.NewRows(showRowColumns)
	addShowRow(rows, "a1", "First", `{"2023":"10"}`)
	addShowRow(rows, "a2", "Second", "not json")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showSelectColumns + " FROM shows")).
		WillReturnRows(rows)

	shows, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, shows, 2)
	assert.Equal(t, "10", shows[0].Revenue2023)
	assert.Equal(t, "0", shows[0].Revenue2024)
	assert.Equal(t, "0", shows[1].Revenue2023)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Legacy rows can hold NULL in any descriptive column; they decode to zero
// values instead of failing the scan (and with it the whole listing).
func TestScanShowToleratesLegacyNulls(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	rows := sqlmock.NewRows(showRowColumns).AddRow(
		"a1", "Legacy", nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+showSelectColumns+" FROM shows WHERE id = ?")).
		WithArgs("a1").
		WillReturnRows(rows)

	s, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "Legacy", s.Title)
	assert.Equal(t, "", s.MediaType)
	assert.False(t, s.Tentpole)
	assert.Equal(t, "0", s.Revenue2023)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterBuildsWhereFromAllowList(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectQuery(regexp.QuoteMeta("FROM shows WHERE `media_type` = ? AND `tentpole` = ?")).
		WithArgs("audio", 1).
		WillReturnRows(addShowRow(sqlmock.NewRows(showRowColumns), "a1", "First", "{}"))

	shows, err := repo.Filter(context.Background(), &model.ShowFilter{
		MediaType: str("audio"),
		Tentpole:  boolean(true),
	})
	require.NoError(t, err)
	assert.Len(t, shows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An empty filter runs the same unqualified select as GetAll.
func TestFilterEmptyMatchesGetAll(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	rows := sqlmock.NewRows(showRowColumns)
	addShowRow(rows, "a1", "First", "{}")
	addShowRow(rows, "a2", "Second", "{}")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + showSelectColumns + " FROM shows")).
		WillReturnRows(rows)

	shows, err := repo.Filter(context.Background(), &model.ShowFilter{})
	require.NoError(t, err)
	assert.Len(t, shows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForPartner(t *testing.T) {
	c, mock := newTestClient(t)
	repo := NewShowRepo(c)

	mock.ExpectQuery("JOIN show_partners sp ON sp.show_id = s.id").
		WithArgs("partner-1").
		WillReturnRows(addShowRow(sqlmock.NewRows(showRowColumns), "a1", "First", "{}"))

	shows, err := repo.ListForPartner(context.Background(), "partner-1")
	require.NoError(t, err)
	assert.Len(t, shows, 1)
	assert.Equal(t, "First", shows[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
