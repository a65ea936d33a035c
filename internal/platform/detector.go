package platform

import (
	"fmt"
	"strings"
)

// Keyword pairs a filename token with the platform it identifies.
type Keyword struct {
	Token    string
	Platform Platform
}

// keywords is evaluated top to bottom and the first hit wins. A token that
// is contained in another token must come after it, otherwise files of the
// sub-brand would be filed under the parent ("amazon_flex" vs "amazon").
var keywords = []Keyword{
	{Token: "amazon_flex", Platform: AmazonFlex},
	{Token: "amazon", Platform: Amazon},
	{Token: "flipkart", Platform: Flipkart},
	{Token: "meesho", Platform: Meesho},
	{Token: "ajio", Platform: Ajio},
	{Token: "firstcry", Platform: Firstcry},
}

// Keywords returns the detection table in evaluation order.
func Keywords() []Keyword {
	return append([]Keyword(nil), keywords...)
}

// Detect infers the platform from a file or archive member name.
// Matching is a case-insensitive substring test over the whole name.
func Detect(filename string) (Platform, bool) {
	return detectWith(keywords, filename)
}

func detectWith(table []Keyword, filename string) (Platform, bool) {
	name := strings.ToLower(filename)
	for _, kw := range table {
		if strings.Contains(name, kw.Token) {
			return kw.Platform, true
		}
	}
	return "", false
}

// ValidateKeywordOrder checks that no token is shadowed by an earlier,
// shorter token it contains, and that every token maps to a registered platform.
func ValidateKeywordOrder(table []Keyword) error {
	for i, kw := range table {
		if !kw.Platform.Valid() {
			return fmt.Errorf("keyword %q maps to unregistered platform %q", kw.Token, kw.Platform)
		}
		for _, earlier := range table[:i] {
			if strings.Contains(kw.Token, earlier.Token) {
				return fmt.Errorf("keyword %q is shadowed by earlier keyword %q", kw.Token, earlier.Token)
			}
		}
	}
	return nil
}
