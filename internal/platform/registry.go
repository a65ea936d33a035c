// Package platform holds the fixed set of marketplaces whose return reports
// can be ingested, the column layout each one exports, and the filename
// keywords used to recognize them.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlatform is returned by Lookup for identifiers outside the registry.
var ErrUnknownPlatform = errors.New("platform not found")

// Platform identifies a return-report source format.
type Platform string

const (
	Flipkart   Platform = "flipkart"
	Ajio       Platform = "ajio"
	Amazon     Platform = "amazon"
	Meesho     Platform = "meesho"
	Firstcry   Platform = "firstcry"
	AmazonFlex Platform = "amazon_flex"
)

// all fixes the listing order of registered platforms.
var all = []Platform{Flipkart, Ajio, Amazon, Meesho, Firstcry, AmazonFlex}

// Schema maps a platform's export columns onto the canonical fields.
// An empty QuantityColumn means every row counts as one returned unit.
type Schema struct {
	ID             Platform `json:"id" yaml:"id"`
	DisplayName    string   `json:"display_name" yaml:"display_name"`
	SKUColumn      string   `json:"sku_column" yaml:"sku_column"`
	ReasonColumn   string   `json:"reason_column" yaml:"reason_column"`
	QuantityColumn string   `json:"quantity_column,omitempty" yaml:"quantity_column,omitempty"`
}

// HasQuantity reports whether the export carries its own quantity column.
func (s Schema) HasQuantity() bool {
	return s.QuantityColumn != ""
}

// RequiredColumns returns the trimmed source columns in sku, reason, quantity order.
func (s Schema) RequiredColumns() []string {
	cols := []string{strings.TrimSpace(s.SKUColumn), strings.TrimSpace(s.ReasonColumn)}
	if s.HasQuantity() {
		cols = append(cols, strings.TrimSpace(s.QuantityColumn))
	}
	return cols
}

// Schema returns the column mapping of p. Every registered platform must
// have a case here; TestRegistryIsExhaustive walks All to enforce it.
func (p Platform) Schema() (Schema, bool) {
	switch p {
	case Flipkart:
		return Schema{ID: p, DisplayName: "Flipkart", SKUColumn: "SKU", ReasonColumn: "Return Sub-reason", QuantityColumn: "Quantity"}, true
	case Ajio:
		return Schema{ID: p, DisplayName: "Ajio", SKUColumn: "SELLER SKU", ReasonColumn: "Cust Return Reason", QuantityColumn: "Return QTY"}, true
	case Amazon:
		return Schema{ID: p, DisplayName: "Amazon Warehouse", SKUColumn: "sku", ReasonColumn: "reason", QuantityColumn: "quantity"}, true
	case Meesho:
		return Schema{ID: p, DisplayName: "Meesho", SKUColumn: "SKU", ReasonColumn: "Detailed Return Reason"}, true
	case Firstcry:
		return Schema{ID: p, DisplayName: "Firstcry", SKUColumn: "VendorStyleCode", ReasonColumn: "Subreason", QuantityColumn: "Quantity"}, true
	case AmazonFlex:
		return Schema{ID: p, DisplayName: "Amazon Flex", SKUColumn: "Item SkuCode", ReasonColumn: "Return Reason", QuantityColumn: "Total Received Items"}, true
	}
	return Schema{}, false
}

// Valid reports whether p is a registered platform.
func (p Platform) Valid() bool {
	_, ok := p.Schema()
	return ok
}

// DisplayName returns the human readable name, or the identifier when unknown.
func (p Platform) DisplayName() string {
	if s, ok := p.Schema(); ok {
		return s.DisplayName
	}
	return string(p)
}

// ResolveDisplayNames maps registry identifiers onto the display names that
// records carry. Unknown values pass through so display names work too;
// blank values are dropped.
func ResolveDisplayNames(values []string) []string {
	var names []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if id := Platform(strings.ToLower(v)); id.Valid() {
			v = id.DisplayName()
		}
		names = append(names, v)
	}
	return names
}

// Lookup returns the schema registered for id.
func Lookup(id Platform) (Schema, error) {
	s, ok := id.Schema()
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, id)
	}
	return s, nil
}

// All returns every registered schema in a stable order.
func All() []Schema {
	out := make([]Schema, 0, len(all))
	for _, p := range all {
		s, _ := p.Schema()
		out = append(out, s)
	}
	return out
}

// Platforms returns every registered identifier.
func Platforms() []Platform {
	return append([]Platform(nil), all...)
}
