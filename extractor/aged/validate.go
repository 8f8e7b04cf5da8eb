package aged

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jobeer1/agedfix/extractor/common"
)

type sourced struct {
	line int
	raw  common.RawRecord
}

// Validate turns raw records into canonical ones: mandatory fields default to
// UNKNOWN, later duplicates of an (account_id, id_number) key are dropped,
// amounts are coerced to 2 dp and dates to ISO. It returns the surviving
// records in input order and the number of duplicates dropped.
func Validate(raws []common.RawRecord) ([]common.Record, int) {
	in := make([]sourced, len(raws))
	for i, r := range raws {
		in[i] = sourced{raw: r}
	}
	records, _, dropped := validate(in)
	return records, dropped
}

func validate(in []sourced) ([]common.Record, []Warning, int) {
	var (
		warnings []Warning
		dropped  int
	)
	seen := make(map[common.Key]struct{}, len(in))
	records := make([]common.Record, 0, len(in))

	for _, s := range in {
		raw := s.raw
		raw.AccountID = orUnknown(raw.AccountID)
		raw.AccountName = orUnknown(raw.AccountName)
		raw.IDNumber = orUnknown(raw.IDNumber)

		key := common.Key{AccountID: raw.AccountID, IDNumber: raw.IDNumber}
		if _, dup := seen[key]; dup {
			dropped++
			warnings = append(warnings, Warning{
				Line:  s.line,
				Field: "account_id",
				Value: raw.AccountID + "/" + raw.IDNumber,
				Err:   ErrDuplicateRecord,
			})
			continue
		}
		seen[key] = struct{}{}

		rec := common.Record{
			AccountID:   raw.AccountID,
			AccountName: raw.AccountName,
			AccountType: raw.AccountType,
			Status:      raw.Status,
			IDNumber:    raw.IDNumber,
			Claim:       raw.Claim,
		}

		amounts := []*decimal.Decimal{&rec.Current, &rec.Days30, &rec.Days60, &rec.Days90, &rec.Days120, &rec.Days150, &rec.Outstanding}
		for i, text := range raw.Amounts() {
			v, err := common.ParseAmount(*text)
			if err != nil {
				if strings.TrimSpace(*text) != "" {
					warnings = append(warnings, Warning{Line: s.line, Field: amountColumns[i], Value: *text, Err: ErrInvalidAmount})
				}
				v = decimal.Zero
			}
			*amounts[i] = v
		}

		var ok bool
		if rec.LastVisit, ok = coerceDate(raw.LastVisit); !ok {
			warnings = append(warnings, Warning{Line: s.line, Field: "last_visit", Value: raw.LastVisit, Err: ErrInvalidDate})
		}
		if rec.LastPayment, ok = coerceDate(raw.LastPayment); !ok {
			warnings = append(warnings, Warning{Line: s.line, Field: "last_payment", Value: raw.LastPayment, Err: ErrInvalidDate})
		}

		records = append(records, rec)
	}
	return records, warnings, dropped
}

var amountColumns = []string{"current", "days_30", "days_60", "days_90", "days_120", "days_150", "outstanding"}

// coerceDate parses an ISO date, falling back to the sentinel. An empty value
// falls back silently.
func coerceDate(value string) (time.Time, bool) {
	t, err := common.ParseISODate(value)
	if err != nil {
		return common.SentinelTime(), strings.TrimSpace(value) == ""
	}
	return t, true
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Unknown
	}
	return s
}
