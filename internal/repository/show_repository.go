package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
)

// showSelectColumns is the fixed column list every show read uses. Its
// order must match scanShow. The camelCase columns keep the names the
// schema was created with.
const showSelectColumns = "id, title, media_type, tentpole, relationship_level, show_type, region, " +
	"primary_education, secondary_education, evergreen_production_staff_name, genre_name, qbo_show_name, " +
	"has_sponsorship_revenue, has_non_evergreen_revenue, requires_partner_access, has_branded_revenue, " +
	"has_marketing_revenue, has_web_mgmt_revenue, is_original, `isUndersized`, `isActive`, annual_usd"

// showColumn binds one writable column to its value in a ShowInput. The
// second return of value reports whether the caller actually supplied the
// field; create ignores it and writes the default, update skips unset
// columns entirely.
type showColumn struct {
	name  string
	value func(in *model.ShowInput) (any, bool)
}

func strCol(name string, get func(*model.ShowInput) *string) showColumn {
	return showColumn{name, func(in *model.ShowInput) (any, bool) {
		if p := get(in); p != nil {
			return *p, true
		}
		return "", false
	}}
}

func boolCol(name string, get func(*model.ShowInput) *bool) showColumn {
	return showColumn{name, func(in *model.ShowInput) (any, bool) {
		if p := get(in); p != nil {
			return boolToBit(*p), true
		}
		return 0, false
	}}
}

// boolToBit binds booleans as 1/0 the way the schema's tinyint columns
// expect.
func boolToBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// showColumns is the single mapping between inbound show fields and their
// storage columns; renames such as show_name_in_qbo -> qbo_show_name live
// only here. Both Create and Update walk this table. The revenue trio is
// handled separately because it collapses into the annual_usd column.
var showColumns = []showColumn{
	strCol("title", func(in *model.ShowInput) *string { return in.Title }),
	strCol("media_type", func(in *model.ShowInput) *string { return in.MediaType }),
	boolCol("tentpole", func(in *model.ShowInput) *bool { return in.Tentpole }),
	strCol("relationship_level", func(in *model.ShowInput) *string { return in.RelationshipLevel }),
	strCol("show_type", func(in *model.ShowInput) *string { return in.ShowType }),
	strCol("region", func(in *model.ShowInput) *string { return in.Region }),
	strCol("primary_education", func(in *model.ShowInput) *string { return in.PrimaryEducation }),
	strCol("secondary_education", func(in *model.ShowInput) *string { return in.SecondaryEducation }),
	strCol("evergreen_production_staff_name", func(in *model.ShowInput) *string { return in.EvergreenProductionStaffName }),
	strCol("genre_name", func(in *model.ShowInput) *string { return in.GenreName }),
	strCol("qbo_show_name", func(in *model.ShowInput) *string { return in.ShowNameInQBO }),
	boolCol("has_sponsorship_revenue", func(in *model.ShowInput) *bool { return in.HasSponsorshipRevenue }),
	boolCol("has_non_evergreen_revenue", func(in *model.ShowInput) *bool { return in.HasNonEvergreenRevenue }),
	boolCol("requires_partner_access", func(in *model.ShowInput) *bool { return in.RequiresPartnerAccess }),
	boolCol("has_branded_revenue", func(in *model.ShowInput) *bool { return in.HasBrandedRevenue }),
	boolCol("has_marketing_revenue", func(in *model.ShowInput) *bool { return in.HasMarketingRevenue }),
	boolCol("has_web_mgmt_revenue", func(in *model.ShowInput) *bool { return in.HasWebMgmtRevenue }),
	boolCol("is_original", func(in *model.ShowInput) *bool { return in.IsOriginal }),
	boolCol("isUndersized", func(in *model.ShowInput) *bool { return in.IsUndersized }),
	boolCol("isActive", func(in *model.ShowInput) *bool { return in.IsActive }),
}

// filterColumn binds one filterable column to its value in a ShowFilter.
// The allow-list is this table: no caller-supplied identifier ever reaches
// statement text.
type filterColumn struct {
	name  string
	value func(f *model.ShowFilter) (any, bool)
}

var showFilterColumns = []filterColumn{
	{"title", func(f *model.ShowFilter) (any, bool) { return strVal(f.Title) }},
	{"media_type", func(f *model.ShowFilter) (any, bool) { return strVal(f.MediaType) }},
	{"tentpole", func(f *model.ShowFilter) (any, bool) { return boolVal(f.Tentpole) }},
	{"relationship_level", func(f *model.ShowFilter) (any, bool) { return strVal(f.RelationshipLevel) }},
	{"show_type", func(f *model.ShowFilter) (any, bool) { return strVal(f.ShowType) }},
	{"has_sponsorship_revenue", func(f *model.ShowFilter) (any, bool) { return boolVal(f.HasSponsorshipRevenue) }},
	{"has_non_evergreen_revenue", func(f *model.ShowFilter) (any, bool) { return boolVal(f.HasNonEvergreenRevenue) }},
	{"requires_partner_access", func(f *model.ShowFilter) (any, bool) { return boolVal(f.RequiresPartnerAccess) }},
	{"has_branded_revenue", func(f *model.ShowFilter) (any, bool) { return boolVal(f.HasBrandedRevenue) }},
	{"has_marketing_revenue", func(f *model.ShowFilter) (any, bool) { return boolVal(f.HasMarketingRevenue) }},
	{"has_web_mgmt_revenue", func(f *model.ShowFilter) (any, bool) { return boolVal(f.HasWebMgmtRevenue) }},
	{"is_original", func(f *model.ShowFilter) (any, bool) { return boolVal(f.IsOriginal) }},
}

func strVal(p *string) (any, bool) {
	if p != nil {
		return *p, true
	}
	return nil, false
}

func boolVal(p *bool) (any, bool) {
	if p != nil {
		return boolToBit(*p), true
	}
	return nil, false
}

// ShowRepo manages persistence for podcast show records.
type ShowRepo struct {
	c *Client
}

// NewShowRepo constructs a ShowRepo on the given client.
func NewShowRepo(c *Client) *ShowRepo {
	return &ShowRepo{c: c}
}

// newShowID returns a 32-character hex identifier from 16 random bytes.
func newShowID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// scanShow reads one row in showSelectColumns order and derives the
// revenue fields from the annual_usd column. Rows written by this service
// populate every column, but legacy imports left NULLs in the descriptive
// ones, so everything past id and title scans through a nullable type and
// decodes to its zero value.
func scanShow(scan func(dest ...any) error) (model.Show, error) {
	var s model.Show
	var (
		mediaType, relLevel, showType, region        sql.NullString
		primaryEdu, secondaryEdu, staffName          sql.NullString
		genreName, qboName, annual                   sql.NullString
		tentpole, sponsorship, nonEvergreen, partner sql.NullBool
		branded, marketing, webMgmt, original        sql.NullBool
		undersized, active                           sql.NullBool
	)
	err := scan(
		&s.ID, &s.Title, &mediaType, &tentpole, &relLevel, &showType, &region,
		&primaryEdu, &secondaryEdu, &staffName, &genreName, &qboName,
		&sponsorship, &nonEvergreen, &partner, &branded,
		&marketing, &webMgmt, &original, &undersized, &active, &annual,
	)
	if err != nil {
		return model.Show{}, err
	}
	s.MediaType = mediaType.String
	s.Tentpole = tentpole.Bool
	s.RelationshipLevel = relLevel.String
	s.ShowType = showType.String
	s.Region = region.String
	s.PrimaryEducation = primaryEdu.String
	s.SecondaryEducation = secondaryEdu.String
	s.EvergreenProductionStaffName = staffName.String
	s.GenreName = genreName.String
	s.QBOShowName = qboName.String
	s.HasSponsorshipRevenue = sponsorship.Bool
	s.HasNonEvergreenRevenue = nonEvergreen.Bool
	s.RequiresPartnerAccess = partner.Bool
	s.HasBrandedRevenue = branded.Bool
	s.HasMarketingRevenue = marketing.Bool
	s.HasWebMgmtRevenue = webMgmt.Bool
	s.IsOriginal = original.Bool
	s.IsUndersized = undersized.Bool
	s.IsActive = active.Bool
	s.AnnualUSD = decodeAnnualUSD(annual.String)
	applyRevenue(&s)
	return s, nil
}

// list runs a multi-row show query and decodes every row.
func (r *ShowRepo) list(ctx context.Context, query string, args []any) ([]model.Show, error) {
	out := []model.Show{}
	err := r.c.query(ctx, query, args, func(rows *sql.Rows) error {
		s, err := scanShow(rows.Scan)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAll returns every show. Statement-level failures deliberately degrade
// to an empty slice so listings never fail the caller; only infra errors
// propagate. See the lossy-error test before relying on this.
func (r *ShowRepo) GetAll(ctx context.Context) ([]model.Show, error) {
	shows, err := r.list(ctx, "SELECT "+showSelectColumns+" FROM shows", nil)
	if err != nil {
		if IsInfra(err) {
			return nil, err
		}
		return []model.Show{}, nil
	}
	return shows, nil
}

// GetByID returns the show with the given id, or (nil, nil) when no such
// row exists.
func (r *ShowRepo) GetByID(ctx context.Context, id string) (*model.Show, error) {
	var s model.Show
	found, err := r.c.queryRow(ctx,
		"SELECT "+showSelectColumns+" FROM shows WHERE id = ?",
		[]any{id},
		func(row *sql.Row) error {
			var err error
			s, err = scanShow(row.Scan)
			return err
		})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

// Filter returns the shows matching every non-nil criterion in f, ANDed
// together. An empty filter returns all shows. Unlike GetAll, statement
// failures are reported to the caller.
func (r *ShowRepo) Filter(ctx context.Context, f *model.ShowFilter) ([]model.Show, error) {
	query := "SELECT " + showSelectColumns + " FROM shows"
	var where []string
	var args []any
	for _, col := range showFilterColumns {
		if v, ok := col.value(f); ok {
			where = append(where, "`"+col.name+"` = ?")
			args = append(args, v)
		}
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return r.list(ctx, query, args)
}

// ListForPartner returns the shows associated with the given partner via
// the show_partners table.
func (r *ShowRepo) ListForPartner(ctx context.Context, partnerID string) ([]model.Show, error) {
	const q = `SELECT s.id, s.title, s.media_type, s.tentpole, s.relationship_level, s.show_type, s.region,
		s.primary_education, s.secondary_education, s.evergreen_production_staff_name, s.genre_name, s.qbo_show_name,
		s.has_sponsorship_revenue, s.has_non_evergreen_revenue, s.requires_partner_access, s.has_branded_revenue,
		s.has_marketing_revenue, s.has_web_mgmt_revenue, s.is_original, s.` + "`isUndersized`, s.`isActive`" + `, s.annual_usd
		FROM shows s
		JOIN show_partners sp ON sp.show_id = s.id
		WHERE sp.partner_id = ?`
	return r.list(ctx, q, []any{partnerID})
}

// Create inserts a new show. The title must be unique: an existing row with
// the same title fails with ErrDuplicateTitle. The pre-check and the insert
// share one transaction, then the stored row is re-selected so the response
// carries the decoded revenue fields. The caller is expected to have
// validated that in.Title is set and non-empty.
func (r *ShowRepo) Create(ctx context.Context, in *model.ShowInput) (*model.Show, error) {
	id, err := newShowID()
	if err != nil {
		return nil, &QueryError{Cause: err}
	}

	cols := []string{"`id`"}
	args := []any{id}
	for _, col := range showColumns {
		v, _ := col.value(in) // create writes the default when unset
		cols = append(cols, "`"+col.name+"`")
		args = append(args, v)
	}
	cols = append(cols, "`annual_usd`")
	args = append(args, encodeAnnualUSD(in.Revenue2023, in.Revenue2024, in.Revenue2025))

	insert := "INSERT INTO shows (" + strings.Join(cols, ", ") + ") VALUES (?" +
		strings.Repeat(", ?", len(args)-1) + ")"

	err = r.c.withTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, "SELECT id FROM shows WHERE title = ?", *in.Title).Scan(&existing)
		if err == nil {
			return ErrDuplicateTitle
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return r.c.statementErr(err)
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return r.c.statementErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update applies a partial update: only the fields set in the payload are
// written. An empty payload never reaches storage and fails with
// ErrNoUpdateData. When any revenue field is present the whole annual_usd
// column is rewritten with absent years at "0" (overwrite, not merge).
// Zero rows affected means the id does not exist.
func (r *ShowRepo) Update(ctx context.Context, id string, in *model.ShowInput) (*model.Show, error) {
	var sets []string
	var args []any
	for _, col := range showColumns {
		if v, ok := col.value(in); ok {
			sets = append(sets, "`"+col.name+"` = ?")
			args = append(args, v)
		}
	}
	if in.HasRevenue() {
		sets = append(sets, "`annual_usd` = ?")
		args = append(args, encodeAnnualUSD(in.Revenue2023, in.Revenue2024, in.Revenue2025))
	}
	if len(sets) == 0 {
		return nil, ErrNoUpdateData
	}
	args = append(args, id)

	n, err := r.c.exec(ctx, "UPDATE shows SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a show by id. Zero rows affected means the id does not
// exist. Association rows in show_partners are managed independently.
func (r *ShowRepo) Delete(ctx context.Context, id string) error {
	n, err := r.c.exec(ctx, "DELETE FROM shows WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
