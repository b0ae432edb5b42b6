package repository

import (
	"encoding/json"
	"strings"

	"github.com/evergreenmedia/podcast-partner-api/internal/model"
)

// The annual_usd column stores per-year revenue as one JSON object keyed by
// fiscal year, e.g. {"2023":"100","2024":"0","2025":"0"}. The three
// revenue_2023/2024/2025 fields on a Show are never stored directly: reads
// derive them from the decoded map, writes collapse them back into the
// column. The whole map is rewritten together whenever any one of the three
// is supplied.

// decodeAnnualUSD turns the raw column value into a year map. Malformed
// JSON never fails the caller; it decodes to an empty map. Numeric values
// are tolerated and normalized to their string form.
func decodeAnnualUSD(raw string) map[string]string {
	out := make(map[string]string)
	if raw == "" {
		return out
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return out
	}
	for year, v := range m {
		switch t := v.(type) {
		case string:
			out[year] = t
		case json.Number:
			out[year] = t.String()
		}
	}
	return out
}

// applyRevenue fills the derived revenue fields from the show's decoded
// AnnualUSD map, defaulting each missing year to "0". Every read path runs
// through this, so the trio is always present and numeric on the way out.
func applyRevenue(s *model.Show) {
	s.Revenue2023 = yearAmount(s.AnnualUSD, model.RevenueYear2023)
	s.Revenue2024 = yearAmount(s.AnnualUSD, model.RevenueYear2024)
	s.Revenue2025 = yearAmount(s.AnnualUSD, model.RevenueYear2025)
}

func yearAmount(m map[string]string, year string) string {
	if v, ok := m[year]; ok && v != "" {
		return v
	}
	return "0"
}

// encodeAnnualUSD builds the stored column value from the three revenue
// scalars, coercing absent or empty amounts to "0".
func encodeAnnualUSD(r2023, r2024, r2025 *model.Money) string {
	m := map[string]string{
		model.RevenueYear2023: moneyOrZero(r2023),
		model.RevenueYear2024: moneyOrZero(r2024),
		model.RevenueYear2025: moneyOrZero(r2025),
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func moneyOrZero(m *model.Money) string {
	if m == nil || *m == "" {
		return "0"
	}
	return string(*m)
}
