package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Money
	}{
		{"string", `"100"`, Money("100")},
		{"string decimal", `"250.75"`, Money("250.75")},
		{"number", `100`, Money("100")},
		{"number decimal", `12.5`, Money("12.5")},
		{"null leaves empty", `null`, Money("")},
		{"empty string allowed", `""`, Money("")},
		{"negative", `"-12.5"`, Money("-12.5")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Money
			require.NoError(t, json.Unmarshal([]byte(tc.in), &m))
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestMoneyRejectsNonNumericAmounts(t *testing.T) {
	for _, in := range []string{`true`, `"abc"`, `"12abc"`, `"1,000"`, `[1]`} {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(in), &m), "input %s", in)
	}
}

func TestShowInputHasRevenue(t *testing.T) {
	title := "The Signal"
	amount := Money("50")

	assert.False(t, (&ShowInput{}).HasRevenue())
	assert.False(t, (&ShowInput{Title: &title}).HasRevenue())
	assert.True(t, (&ShowInput{Revenue2024: &amount}).HasRevenue())
}

func TestShowInputDecodesNumberOrStringRevenue(t *testing.T) {
	var in ShowInput
	payload := `{"title":"The Signal","revenue_2023":100,"revenue_2024":"250.75","show_name_in_qbo":"Signal QBO"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	require.NotNil(t, in.Revenue2023)
	assert.Equal(t, Money("100"), *in.Revenue2023)
	require.NotNil(t, in.Revenue2024)
	assert.Equal(t, Money("250.75"), *in.Revenue2024)
	assert.Nil(t, in.Revenue2025)
	require.NotNil(t, in.ShowNameInQBO)
	assert.Equal(t, "Signal QBO", *in.ShowNameInQBO)
}
