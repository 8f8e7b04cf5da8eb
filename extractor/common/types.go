package common

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel values substituted for unresolved or unparseable data.
const (
	Unknown      = "UNKNOWN"
	DateLayout   = "2006-01-02"
	SentinelDate = "1900-01-01"
)

// Columns is the fixed serialization order of a Record.
var Columns = []string{
	"account_id",
	"account_name",
	"account_type",
	"last_visit",
	"last_payment",
	"current",
	"days_30",
	"days_60",
	"days_90",
	"days_120",
	"days_150",
	"outstanding",
	"status",
	"id_number",
	"claim",
}

// RawRecord is an assembled but unvalidated row. Every field is still text.
type RawRecord struct {
	AccountID   string
	AccountName string
	AccountType string
	LastVisit   string
	LastPayment string
	Current     string
	Days30      string
	Days60      string
	Days90      string
	Days120     string
	Days150     string
	Outstanding string
	Status      string
	IDNumber    string
	Claim       string
}

// Amounts returns pointers to the seven amount fields in schema order.
func (r *RawRecord) Amounts() []*string {
	return []*string{&r.Current, &r.Days30, &r.Days60, &r.Days90, &r.Days120, &r.Days150, &r.Outstanding}
}

// Record is the canonical, validated row of an aged accounts report.
type Record struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	AccountType string          `json:"account_type"`
	LastVisit   time.Time       `json:"last_visit"`
	LastPayment time.Time       `json:"last_payment"`
	Current     decimal.Decimal `json:"current"`
	Days30      decimal.Decimal `json:"days_30"`
	Days60      decimal.Decimal `json:"days_60"`
	Days90      decimal.Decimal `json:"days_90"`
	Days120     decimal.Decimal `json:"days_120"`
	Days150     decimal.Decimal `json:"days_150"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
	IDNumber    string          `json:"id_number"`
	Claim       string          `json:"claim"`
}

// Key is the composite uniqueness key of a record set.
type Key struct {
	AccountID string
	IDNumber  string
}

func (r Record) Key() Key {
	return Key{AccountID: r.AccountID, IDNumber: r.IDNumber}
}

// Row renders the record as strings in Columns order.
func (r Record) Row() []string {
	return []string{
		r.AccountID,
		r.AccountName,
		r.AccountType,
		r.LastVisit.Format(DateLayout),
		r.LastPayment.Format(DateLayout),
		r.Current.StringFixed(2),
		r.Days30.StringFixed(2),
		r.Days60.StringFixed(2),
		r.Days90.StringFixed(2),
		r.Days120.StringFixed(2),
		r.Days150.StringFixed(2),
		r.Outstanding.StringFixed(2),
		r.Status,
		r.IDNumber,
		r.Claim,
	}
}

// MarshalJSON writes dates as YYYY-MM-DD and amounts with two decimals, the
// same text Row produces.
func (r Record) MarshalJSON() ([]byte, error) {
	row := r.Row()
	return json.Marshal(struct {
		AccountID   string `json:"account_id"`
		AccountName string `json:"account_name"`
		AccountType string `json:"account_type"`
		LastVisit   string `json:"last_visit"`
		LastPayment string `json:"last_payment"`
		Current     string `json:"current"`
		Days30      string `json:"days_30"`
		Days60      string `json:"days_60"`
		Days90      string `json:"days_90"`
		Days120     string `json:"days_120"`
		Days150     string `json:"days_150"`
		Outstanding string `json:"outstanding"`
		Status      string `json:"status"`
		IDNumber    string `json:"id_number"`
		Claim       string `json:"claim"`
	}{
		row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7],
		row[8], row[9], row[10], row[11], row[12], row[13], row[14],
	})
}
