package aged

import (
	"github.com/Jobeer1/agedfix/extractor/common"
)

// Fields is what the classifiers found on one line.
type Fields struct {
	AccountID   string
	AccountName string
	Dates       []string
	// Amounts are the normalized amount tokens other than Outstanding, left to right.
	Amounts     []string
	Outstanding string
	IDNumber    string

	// Columns is set for header mapped rows and overrides the heuristics above.
	Columns map[string]string
}

var qualifyingColumns = []string{
	"account_id", "last_visit", "last_payment", "id_number",
	"current", "days_30", "days_60", "days_90", "days_120", "days_150", "outstanding",
}

// Found reports whether any of account id, date, amount or ID number was seen.
func (f Fields) Found() bool {
	if f.Columns != nil {
		for _, field := range qualifyingColumns {
			if f.Columns[field] != "" {
				return true
			}
		}
		return false
	}
	return f.AccountID != "" || len(f.Dates) > 0 || f.Outstanding != "" || f.IDNumber != ""
}

// Classify runs every classifier over one token slice.
func (c *Classifiers) Classify(tokens []string) Fields {
	var f Fields

	accIdx := c.accountIndex(tokens)
	if accIdx >= 0 {
		f.AccountID = tokens[accIdx]
	}
	f.AccountName, _ = c.AccountName(tokens)
	f.Dates = c.Dates(tokens)

	idIdx, id := c.idIndex(tokens)
	f.IDNumber = id

	amtIdx := c.amountIndex(tokens)
	if amtIdx >= 0 {
		f.Outstanding = NormalizeAmount(tokens[amtIdx])
	}
	for i, tok := range tokens {
		if i == accIdx || i == idIdx || i == amtIdx || !c.isAmount(tok) {
			continue
		}
		f.Amounts = append(f.Amounts, NormalizeAmount(tok))
	}
	return f
}

// Assemble builds the raw record for one line. Every field is set; fields the
// line did not provide are empty. Only the account number is normalized here.
func (p *Pipeline) Assemble(f Fields) common.RawRecord {
	if f.Columns != nil {
		return p.assembleColumns(f.Columns)
	}

	rec := common.RawRecord{
		AccountName: f.AccountName,
		Outstanding: f.Outstanding,
		IDNumber:    f.IDNumber,
	}
	if f.AccountID != "" {
		rec.AccountID = p.normalizer.Normalize(f.AccountID)
	}
	if len(f.Dates) > 0 {
		rec.LastVisit = f.Dates[0]
	}
	if len(f.Dates) > 1 {
		rec.LastPayment = f.Dates[1]
	}

	buckets := rec.Amounts()[:6]
	for i, amount := range f.Amounts {
		if i >= len(buckets) {
			break
		}
		*buckets[i] = amount
	}
	return rec
}

func (p *Pipeline) assembleColumns(cols map[string]string) common.RawRecord {
	rec := common.RawRecord{
		AccountName: cols["account_name"],
		AccountType: cols["account_type"],
		Status:      cols["status"],
		Claim:       cols["claim"],
	}
	if v := cols["account_id"]; v != "" {
		rec.AccountID = p.normalizer.Normalize(v)
	}
	if v := cols["last_visit"]; v != "" {
		rec.LastVisit = p.classifiers.ConvertDate(v)
	}
	if v := cols["last_payment"]; v != "" {
		rec.LastPayment = p.classifiers.ConvertDate(v)
	}
	if v := cols["id_number"]; v != "" {
		rec.IDNumber, _ = p.classifiers.IDNumber([]string{v})
	}

	amounts := rec.Amounts()
	for i, field := range []string{"current", "days_30", "days_60", "days_90", "days_120", "days_150", "outstanding"} {
		if v := cols[field]; v != "" {
			*amounts[i] = NormalizeAmount(v)
		}
	}
	return rec
}
