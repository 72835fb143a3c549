package ranking

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aushadhiai/screening-console/pkg/errors"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Collation compares display names the way a reader of the locale expects
// ("apple" before "Banana", "Éclair" next to "Eclair").  A collate.Collator
// keeps scratch buffers, so access is serialised.
type Collation struct {
	mu  sync.Mutex
	col *collate.Collator
	tag language.Tag
}

// NewCollation builds a collation for a BCP 47 locale such as "en" or "hi-IN".
// An empty locale selects DefaultLocale.
func NewCollation(locale string) (*Collation, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid ranking locale").WithDetail(locale)
	}
	return &Collation{col: collate.New(tag), tag: tag}, nil
}

// English returns a collation for DefaultLocale.
func English() *Collation {
	return &Collation{col: collate.New(language.English), tag: language.English}
}

// Locale returns the tag the collation was built for.
func (c *Collation) Locale() string { return c.tag.String() }

// Compare returns -1, 0 or +1.
func (c *Collation) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col.CompareString(a, b)
}
