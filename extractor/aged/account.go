package aged

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule tiers, evaluated in this order.
const (
	TierDirect   = 1
	TierFallback = 2
	TierLength   = 3
)

// AccountRule is one step of the normalizer. Apply reports whether the rule
// matches and, if so, the normalized account number.
type AccountRule struct {
	Tier  int
	Name  string
	Apply func(s string) (string, bool)
}

// Resolution describes how an account number was normalized.
type Resolution struct {
	Value     string
	Rule      string
	Tier      int
	Matched   bool
	Ambiguous bool
}

// Normalizer rewrites account numbers into their canonical prefixed form.
type Normalizer struct {
	rules []AccountRule
}

var innerSpace = regexp.MustCompile(`\s+`)

func NewNormalizer(r Rules) *Normalizer {
	var rules []AccountRule

	for _, p := range r.Prefixes {
		re := regexp.MustCompile(`^` + regexp.QuoteMeta(p.Prefix) + fmt.Sprintf(`\d{%d,}$`, p.MinDigits))
		rules = append(rules, AccountRule{
			Tier: TierDirect,
			Name: "direct:" + p.Prefix,
			Apply: func(s string) (string, bool) {
				return s, re.MatchString(s)
			},
		})
	}

	for _, f := range r.Fallbacks {
		re := regexp.MustCompile(`^(` + f.Lead + `\d*)`)
		prefix := f.Prefix
		rules = append(rules, AccountRule{
			Tier: TierFallback,
			Name: "fallback:" + f.Lead,
			Apply: func(s string) (string, bool) {
				m := re.FindStringSubmatch(s)
				if m == nil {
					return "", false
				}
				return prefix + m[1], true
			},
		})
	}

	for _, l := range r.Lengths {
		re := regexp.MustCompile(fmt.Sprintf(`^%s\d{%d}$`, l.Lead, l.Length-len(l.Lead)))
		prefix := l.Prefix
		rules = append(rules, AccountRule{
			Tier: TierLength,
			Name: fmt.Sprintf("length:%d/%s", l.Length, l.Lead),
			Apply: func(s string) (string, bool) {
				if !re.MatchString(s) {
					return "", false
				}
				return prefix + s, true
			},
		})
	}

	for _, l := range r.Extractions {
		re := regexp.MustCompile(fmt.Sprintf(`^(%s\d{%d})(?:\D|$)`, l.Lead, l.Length-len(l.Lead)))
		prefix := l.Prefix
		rules = append(rules, AccountRule{
			Tier: TierLength,
			Name: fmt.Sprintf("extract:%d/%s", l.Length, l.Lead),
			Apply: func(s string) (string, bool) {
				m := re.FindStringSubmatch(s)
				if m == nil {
					return "", false
				}
				return prefix + m[1], true
			},
		})
	}

	return &Normalizer{rules: rules}
}

// Rules returns the rules in evaluation order.
func (n *Normalizer) Rules() []AccountRule {
	return append([]AccountRule(nil), n.rules...)
}

func canonical(raw string) string {
	return innerSpace.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")
}

// Resolve runs every rule. The first match decides the value; matches from
// more than one tier mark the result ambiguous.
func (n *Normalizer) Resolve(raw string) Resolution {
	s := canonical(raw)
	res := Resolution{Value: s}

	for _, rule := range n.rules {
		v, ok := rule.Apply(s)
		if !ok {
			continue
		}
		if !res.Matched {
			res.Value, res.Rule, res.Tier, res.Matched = v, rule.Name, rule.Tier, true
			continue
		}
		if rule.Tier != res.Tier {
			res.Ambiguous = true
			break
		}
	}
	return res
}

// Normalize returns the canonical account number, or the cleaned input when
// no rule matches.
func (n *Normalizer) Normalize(raw string) string {
	return n.Resolve(raw).Value
}
