package aged

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Jobeer1/agedfix/extractor/common"
)

var (
	accountToken   = regexp.MustCompile(`^[A-Z0-9]{6,}$`)
	numericToken   = regexp.MustCompile(`^[0-9.,-]+$`)
	amountToken    = regexp.MustCompile(`^[0-9.,-]+(?: [0-9.,-]+)*$`)
	bareIdentifier = regexp.MustCompile(`^\d{10,}$`)
	labeledID      = regexp.MustCompile(`(?i)\bID\s*:\s*(\d{10,13})\d{0,2}\b`)
	bareID         = regexp.MustCompile(`\b(\d{13})\b`)
)

// Classifiers holds the compiled date rules. Every method is a pure function of
// its token slice: it never errors and never panics, it just reports (value, ok).
type Classifiers struct {
	datePattern *regexp.Regexp
	dateLayouts []string
}

func NewClassifiers(r Rules) (*Classifiers, error) {
	re, err := regexp.Compile(r.DatePattern)
	if err != nil {
		return nil, fmt.Errorf("date_pattern: %w", err)
	}
	return &Classifiers{
		datePattern: re,
		dateLayouts: append([]string(nil), r.DateLayouts...),
	}, nil
}

func (c *Classifiers) accountIndex(tokens []string) int {
	for i, tok := range tokens {
		if accountToken.MatchString(strings.ToUpper(tok)) {
			return i
		}
	}
	return -1
}

// AccountID returns the first token that looks like an account number.
func (c *Classifiers) AccountID(tokens []string) (string, bool) {
	if i := c.accountIndex(tokens); i >= 0 {
		return tokens[i], true
	}
	return "", false
}

// AccountName returns the first non-numeric, non-date token after the first.
func (c *Classifiers) AccountName(tokens []string) (string, bool) {
	for i := 1; i < len(tokens); i++ {
		if numericToken.MatchString(tokens[i]) || c.datePattern.MatchString(tokens[i]) {
			continue
		}
		return tokens[i], true
	}
	return "", false
}

// Dates returns every date found in the tokens, converted where possible.
func (c *Classifiers) Dates(tokens []string) []string {
	var dates []string
	for _, tok := range tokens {
		if m := c.datePattern.FindString(tok); m != "" {
			dates = append(dates, c.ConvertDate(m))
		}
	}
	return dates
}

// Date returns the first date found in the tokens.
func (c *Classifiers) Date(tokens []string) (string, bool) {
	for _, tok := range tokens {
		if m := c.datePattern.FindString(tok); m != "" {
			return c.ConvertDate(m), true
		}
	}
	return "", false
}

// ConvertDate rewrites a report date as YYYY-MM-DD. Values that match none of
// the layouts come back unchanged.
func (c *Classifiers) ConvertDate(s string) string {
	s = strings.TrimSpace(s)
	t, err := common.ParseDateLayouts(s, c.dateLayouts)
	if err != nil {
		return s
	}
	return t.Format(common.DateLayout)
}

func (c *Classifiers) isAmount(tok string) bool {
	return amountToken.MatchString(tok) &&
		!c.datePattern.MatchString(tok) &&
		!bareIdentifier.MatchString(tok)
}

func (c *Classifiers) amountIndex(tokens []string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if c.isAmount(tokens[i]) {
			return i
		}
	}
	return -1
}

// Amount returns the last amount-shaped token, normalized.
func (c *Classifiers) Amount(tokens []string) (string, bool) {
	if i := c.amountIndex(tokens); i >= 0 {
		return NormalizeAmount(tokens[i]), true
	}
	return "", false
}

// NormalizeAmount turns a European formatted amount into a plain decimal
// string: "1.234,56-" becomes "-1234.56". Dots are always thousands
// separators, so "12.50" becomes "1250". A value that still does not parse is
// returned trimmed but otherwise untouched.
func NormalizeAmount(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	body := s
	negative := false
	switch {
	case strings.HasSuffix(body, "-"):
		negative = true
		body = strings.TrimSuffix(body, "-")
	case strings.HasPrefix(body, "-"):
		negative = true
		body = strings.TrimPrefix(body, "-")
	}
	body = strings.ReplaceAll(body, " ", "")

	body = strings.ReplaceAll(body, ".", "")
	body = strings.ReplaceAll(body, ",", ".")
	if negative {
		body = "-" + body
	}

	if _, err := decimal.NewFromString(body); err != nil {
		return s
	}
	return body
}

func (c *Classifiers) idIndex(tokens []string) (int, string) {
	for i, tok := range tokens {
		if m := labeledID.FindStringSubmatch(tok); m != nil && len(m[1]) == 13 {
			return i, m[1]
		}
	}
	for i, tok := range tokens {
		if m := bareID.FindStringSubmatch(tok); m != nil {
			return i, m[1]
		}
	}
	return -1, ""
}

// IDNumber returns a 13 digit identity number, labeled ("ID: ...") or bare.
func (c *Classifiers) IDNumber(tokens []string) (string, bool) {
	if i, id := c.idIndex(tokens); i >= 0 {
		return id, true
	}
	return "", false
}

// partialID returns a labeled identity number that is too short for the schema.
func (c *Classifiers) partialID(tokens []string) (string, bool) {
	for _, tok := range tokens {
		if m := labeledID.FindStringSubmatch(tok); m != nil && len(m[1]) < 13 {
			return m[1], true
		}
	}
	return "", false
}
