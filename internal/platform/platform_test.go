package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsExhaustive(t *testing.T) {
	for _, p := range Platforms() {
		t.Run(string(p), func(t *testing.T) {
			s, err := Lookup(p)
			require.NoError(t, err)
			assert.Equal(t, p, s.ID)
			assert.NotEmpty(t, s.DisplayName)
			assert.NotEmpty(t, s.SKUColumn)
			assert.NotEmpty(t, s.ReasonColumn)
		})
	}
	assert.Len(t, All(), len(Platforms()))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup(Platform("shopify"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPlatform))
	assert.False(t, Platform("shopify").Valid())
	assert.Equal(t, "shopify", Platform("shopify").DisplayName())
}

func TestRequiredColumns(t *testing.T) {
	flipkart, err := Lookup(Flipkart)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Return Sub-reason", "Quantity"}, flipkart.RequiredColumns())
	assert.True(t, flipkart.HasQuantity())

	meesho, err := Lookup(Meesho)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Detailed Return Reason"}, meesho.RequiredColumns())
	assert.False(t, meesho.HasQuantity())
}

func TestDisplayNames(t *testing.T) {
	want := map[Platform]string{
		Flipkart:   "Flipkart",
		Ajio:       "Ajio",
		Amazon:     "Amazon Warehouse",
		Meesho:     "Meesho",
		Firstcry:   "Firstcry",
		AmazonFlex: "Amazon Flex",
	}
	for p, name := range want {
		assert.Equal(t, name, p.DisplayName(), p)
	}
}

func TestKeywordOrder(t *testing.T) {
	require.NoError(t, ValidateKeywordOrder(Keywords()))

	// every pair must be reachable: its own token resolves to its platform
	for _, kw := range Keywords() {
		t.Run(kw.Token, func(t *testing.T) {
			got, ok := Detect("returns_" + kw.Token + "_2024.csv")
			require.True(t, ok)
			assert.Equal(t, kw.Platform, got)
		})
	}

	// every registered platform has at least one keyword
	covered := make(map[Platform]bool)
	for _, kw := range Keywords() {
		covered[kw.Platform] = true
	}
	for _, p := range Platforms() {
		assert.True(t, covered[p], "no keyword for %s", p)
	}
}

func TestValidateKeywordOrderRejectsShadowing(t *testing.T) {
	bad := []Keyword{
		{Token: "amazon", Platform: Amazon},
		{Token: "amazon_flex", Platform: AmazonFlex},
	}
	err := ValidateKeywordOrder(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadowed")

	// with the shadowed order the sub-brand is misfiled
	got, ok := detectWith(bad, "amazon_flex_returns.csv")
	require.True(t, ok)
	assert.Equal(t, Amazon, got)

	err = ValidateKeywordOrder([]Keyword{{Token: "shopify", Platform: Platform("shopify")}})
	require.Error(t, err)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Platform
		ok       bool
	}{
		{"flex before amazon", "Amazon_Flex_Returns_Jan.xlsx", AmazonFlex, true},
		{"plain amazon", "amazon-returns.csv", Amazon, true},
		{"upper case", "FLIPKART_RETURNS.CSV", Flipkart, true},
		{"meesho", "meesho_jan.xlsx", Meesho, true},
		{"ajio", "reports/ajio.csv", Ajio, true},
		{"firstcry", "FirstCry Returns.xlsx", Firstcry, true},
		{"directory counts", "amazon/orders.csv", Amazon, true},
		{"unrecognized", "myntra_returns.csv", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDisplayNames(t *testing.T) {
	assert.Equal(t,
		[]string{"Flipkart", "Amazon Flex", "Amazon Warehouse", "Custom"},
		ResolveDisplayNames([]string{"flipkart", " AMAZON_FLEX ", "Amazon Warehouse", "Custom", ""}))
	assert.Nil(t, ResolveDisplayNames(nil))
}
