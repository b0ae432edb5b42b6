package model

import (
	"encoding/json"
	"fmt"
)

// Revenue years tracked in the annual_usd column. Amounts for any other
// year are never written by this service.
const (
	RevenueYear2023 = "2023"
	RevenueYear2024 = "2024"
	RevenueYear2025 = "2025"
)

// Money is a decimal amount carried as a string, matching how the
// annual_usd column stores per-year values. Inbound payloads may send
// revenue either as a JSON number or a JSON string; both decode to the
// string form.
type Money string

// UnmarshalJSON accepts "100", "100.50" and 100 alike. A JSON null leaves
// the value empty, which downstream encoding coerces to "0". String amounts
// must themselves be numeric; "abc" is rejected so every stored amount stays
// parseable.
func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s != "" {
			var n json.Number
			if err := json.Unmarshal([]byte(s), &n); err != nil {
				return fmt.Errorf("money: %q is not a numeric amount", s)
			}
		}
		*m = Money(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*m = Money(n.String())
	return nil
}

// Show represents a podcast record as stored in the `shows` table plus the
// derived per-year revenue fields. The AnnualUSD map is the decoded form of
// the annual_usd JSON column; Revenue2023/2024/2025 are never stored, they
// are always computed from the map on read.
//
// Fields worth calling out:
//  ID           – shows.id, 32 hex characters generated at create time.
//  Title        – shows.title, unique across all shows (pre-checked, not a
//                 storage constraint).
//  QBOShowName  – shows.qbo_show_name; arrives as show_name_in_qbo on input.
//  IsUndersized – shows.isUndersized (the column keeps the camelCase name).
type Show struct {
	ID                           string            `json:"id"`                              // shows.id
	Title                        string            `json:"title"`                           // shows.title
	MediaType                    string            `json:"media_type"`                      // shows.media_type
	Tentpole                     bool              `json:"tentpole"`                        // shows.tentpole
	RelationshipLevel            string            `json:"relationship_level"`              // shows.relationship_level
	ShowType                     string            `json:"show_type"`                       // shows.show_type
	Region                       string            `json:"region"`                          // shows.region
	PrimaryEducation             string            `json:"primary_education"`               // shows.primary_education
	SecondaryEducation           string            `json:"secondary_education"`             // shows.secondary_education
	EvergreenProductionStaffName string            `json:"evergreen_production_staff_name"` // shows.evergreen_production_staff_name
	GenreName                    string            `json:"genre_name"`                      // shows.genre_name
	QBOShowName                  string            `json:"qbo_show_name"`                   // shows.qbo_show_name
	HasSponsorshipRevenue        bool              `json:"has_sponsorship_revenue"`         // shows.has_sponsorship_revenue
	HasNonEvergreenRevenue       bool              `json:"has_non_evergreen_revenue"`       // shows.has_non_evergreen_revenue
	RequiresPartnerAccess        bool              `json:"requires_partner_access"`         // shows.requires_partner_access
	HasBrandedRevenue            bool              `json:"has_branded_revenue"`             // shows.has_branded_revenue
	HasMarketingRevenue          bool              `json:"has_marketing_revenue"`           // shows.has_marketing_revenue
	HasWebMgmtRevenue            bool              `json:"has_web_mgmt_revenue"`            // shows.has_web_mgmt_revenue
	IsOriginal                   bool              `json:"is_original"`                     // shows.is_original
	IsUndersized                 bool              `json:"isUndersized"`                    // shows.isUndersized
	IsActive                     bool              `json:"isActive"`                        // shows.isActive
	AnnualUSD                    map[string]string `json:"annual_usd"`                      // shows.annual_usd (JSON column, decoded)
	Revenue2023                  string            `json:"revenue_2023"`                    // derived from AnnualUSD["2023"]
	Revenue2024                  string            `json:"revenue_2024"`                    // derived from AnnualUSD["2024"]
	Revenue2025                  string            `json:"revenue_2025"`                    // derived from AnnualUSD["2025"]
}

// ShowInput is the inbound create/update payload for a show. Every field is
// a pointer so a partial update can distinguish "not supplied" from a zero
// value; create treats nil fields as their zero defaults. There is no
// annual_usd field on purpose: callers supply the three revenue scalars and
// the repository encodes them into the stored column.
type ShowInput struct {
	Title                        *string `json:"title"`
	MediaType                    *string `json:"media_type"`
	Tentpole                     *bool   `json:"tentpole"`
	RelationshipLevel            *string `json:"relationship_level"`
	ShowType                     *string `json:"show_type"`
	Region                       *string `json:"region"`
	PrimaryEducation             *string `json:"primary_education"`
	SecondaryEducation           *string `json:"secondary_education"`
	EvergreenProductionStaffName *string `json:"evergreen_production_staff_name"`
	GenreName                    *string `json:"genre_name"`
	ShowNameInQBO                *string `json:"show_name_in_qbo"`
	HasSponsorshipRevenue        *bool   `json:"has_sponsorship_revenue"`
	HasNonEvergreenRevenue       *bool   `json:"has_non_evergreen_revenue"`
	RequiresPartnerAccess        *bool   `json:"requires_partner_access"`
	HasBrandedRevenue            *bool   `json:"has_branded_revenue"`
	HasMarketingRevenue          *bool   `json:"has_marketing_revenue"`
	HasWebMgmtRevenue            *bool   `json:"has_web_mgmt_revenue"`
	IsOriginal                   *bool   `json:"is_original"`
	IsUndersized                 *bool   `json:"isUndersized"`
	IsActive                     *bool   `json:"isActive"`
	Revenue2023                  *Money  `json:"revenue_2023"`
	Revenue2024                  *Money  `json:"revenue_2024"`
	Revenue2025                  *Money  `json:"revenue_2025"`
}

// HasRevenue reports whether any of the three revenue fields was supplied.
// When true, the whole annual_usd column is rewritten from the trio; absent
// years fall back to "0" rather than their previously stored amount.
func (in *ShowInput) HasRevenue() bool {
	return in.Revenue2023 != nil || in.Revenue2024 != nil || in.Revenue2025 != nil
}

// ShowFilter enumerates the columns a caller may filter shows by. Each
// non-nil field becomes one equality predicate; the set of filterable
// columns is fixed here, never taken from request keys.
type ShowFilter struct {
	Title                  *string `query:"title"`
	MediaType              *string `query:"media_type"`
	Tentpole               *bool   `query:"tentpole"`
	RelationshipLevel      *string `query:"relationship_level"`
	ShowType               *string `query:"show_type"`
	HasSponsorshipRevenue  *bool   `query:"has_sponsorship_revenue"`
	HasNonEvergreenRevenue *bool   `query:"has_non_evergreen_revenue"`
	RequiresPartnerAccess  *bool   `query:"requires_partner_access"`
	HasBrandedRevenue      *bool   `query:"has_branded_revenue"`
	HasMarketingRevenue    *bool   `query:"has_marketing_revenue"`
	HasWebMgmtRevenue      *bool   `query:"has_web_mgmt_revenue"`
	IsOriginal             *bool   `query:"is_original"`
}
