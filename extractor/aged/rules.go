package aged

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// PrefixRule accepts an already prefixed account with at least MinDigits digits.
type PrefixRule struct {
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	MinDigits int    `mapstructure:"min_digits" yaml:"min_digits"`
}

// FallbackRule infers Prefix for an unprefixed account whose digits start with Lead.
type FallbackRule struct {
	Lead   string `mapstructure:"lead" yaml:"lead"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// LengthRule infers Prefix for a digit string of exactly Length digits starting with Lead.
// Used as an extraction rule it matches a leading run of Length digits instead.
type LengthRule struct {
	Length int    `mapstructure:"length" yaml:"length"`
	Lead   string `mapstructure:"lead" yaml:"lead"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// Rules is the domain configuration of one report family. Build it once and pass
// it to New; the pipeline copies what it needs and never mutates it.
type Rules struct {
	Prefixes      []PrefixRule        `mapstructure:"prefixes" yaml:"prefixes"`
	Fallbacks     []FallbackRule      `mapstructure:"fallbacks" yaml:"fallbacks"`
	Lengths       []LengthRule        `mapstructure:"lengths" yaml:"lengths"`
	Extractions   []LengthRule        `mapstructure:"extractions" yaml:"extractions"`
	DatePattern   string              `mapstructure:"date_pattern" yaml:"date_pattern"`
	DateLayouts   []string            `mapstructure:"date_layouts" yaml:"date_layouts"`
	HeaderAliases map[string][]string `mapstructure:"header_aliases" yaml:"header_aliases"`
}

// DefaultRules returns the rule tables of the aged accounts export.
func DefaultRules() Rules {
	return Rules{
		Prefixes: []PrefixRule{
			{Prefix: "MT", MinDigits: 5},
			{Prefix: "N", MinDigits: 6},
			{Prefix: "E", MinDigits: 6},
			{Prefix: "U", MinDigits: 6},
			{Prefix: "I", MinDigits: 7},
		},
		Fallbacks: []FallbackRule{
			{Lead: "003", Prefix: "N"},
			{Lead: "027", Prefix: "E"},
			{Lead: "009", Prefix: "U"},
			{Lead: "0001", Prefix: "I"},
			{Lead: "01", Prefix: "MT"},
		},
		Lengths: []LengthRule{
			{Length: 8, Lead: "1", Prefix: "N"},
			{Length: 7, Lead: "0", Prefix: "N"},
			{Length: 7, Lead: "9", Prefix: "U"},
			{Length: 7, Lead: "2", Prefix: "E"},
			{Length: 8, Lead: "0", Prefix: "E"},
		},
		Extractions: []LengthRule{
			{Length: 7, Lead: "0", Prefix: "N"},
		},
		DatePattern: `\d{2}\.\d{2}\.\d{2,4}`,
		DateLayouts: []string{"02.01.06", "02/01/2006", "02.01.2006", "02/01/06"},
		HeaderAliases: map[string][]string{
			"account_id":   {"account", "accountno", "accountnumber", "accountid", "acc", "accno", "accnr"},
			"account_name": {"name", "accountname", "patient", "patientname", "debtor", "debtorname"},
			"account_type": {"type", "accounttype", "acctype"},
			"last_visit":   {"lastvisit", "visit", "lastvisitdate"},
			"last_payment": {"lastpayment", "lastpaid", "lastpaymentdate", "paymentdate"},
			"current":      {"current", "curr"},
			"days_30":      {"30", "30days", "days30"},
			"days_60":      {"60", "60days", "days60"},
			"days_90":      {"90", "90days", "days90"},
			"days_120":     {"120", "120days", "days120"},
			"days_150":     {"150", "150days", "days150"},
			"outstanding":  {"outstanding", "balance", "total", "totaloutstanding"},
			"status":       {"status"},
			"id_number":    {"idnumber", "id", "idno", "identity", "identitynumber"},
			"claim":        {"claim", "claimno", "claimnumber", "medicalaid"},
		},
	}
}

// RulesFromViper reads rule overrides under key. Sections left out of the
// configuration keep their defaults.
func RulesFromViper(v *viper.Viper, key string) (Rules, error) {
	defaults := DefaultRules()
	if v == nil || !v.IsSet(key) {
		return defaults, nil
	}

	var r Rules
	if err := v.UnmarshalKey(key, &r); err != nil {
		return Rules{}, fmt.Errorf("reading %s: %w", key, err)
	}

	if len(r.Prefixes) == 0 {
		r.Prefixes = defaults.Prefixes
	}
	if len(r.Fallbacks) == 0 {
		r.Fallbacks = defaults.Fallbacks
	}
	if len(r.Lengths) == 0 {
		r.Lengths = defaults.Lengths
	}
	if len(r.Extractions) == 0 {
		r.Extractions = defaults.Extractions
	}
	if r.DatePattern == "" {
		r.DatePattern = defaults.DatePattern
	}
	if len(r.DateLayouts) == 0 {
		r.DateLayouts = defaults.DateLayouts
	}
	if len(r.HeaderAliases) == 0 {
		r.HeaderAliases = defaults.HeaderAliases
	}

	return r, r.Validate()
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Validate reports rule tables that cannot be compiled into a pipeline.
func (r Rules) Validate() error {
	for _, p := range r.Prefixes {
		if p.Prefix == "" || p.MinDigits < 1 {
			return fmt.Errorf("prefix rule %+v: prefix and min_digits are required", p)
		}
	}
	for _, f := range r.Fallbacks {
		if !digitsOnly.MatchString(f.Lead) || f.Prefix == "" {
			return fmt.Errorf("fallback rule %+v: lead must be digits and prefix is required", f)
		}
	}
	for _, l := range append(append([]LengthRule{}, r.Lengths...), r.Extractions...) {
		if !digitsOnly.MatchString(l.Lead) || l.Prefix == "" || l.Length < len(l.Lead) {
			return fmt.Errorf("length rule %+v: lead must be digits no longer than length", l)
		}
	}
	if _, err := regexp.Compile(r.DatePattern); err != nil {
		return fmt.Errorf("date_pattern: %w", err)
	}
	if len(r.DateLayouts) == 0 {
		return fmt.Errorf("date_layouts: at least one layout is required")
	}
	return nil
}

// headerFields resolves normalized header keys to schema field names.
func (r Rules) headerFields() map[string]string {
	out := make(map[string]string)
	for field, aliases := range r.HeaderAliases {
		for _, a := range aliases {
			out[headerKey(a)] = field
		}
	}
	return out
}

func headerKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}
