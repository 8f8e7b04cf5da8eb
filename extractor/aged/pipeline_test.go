package aged

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jobeer1/agedfix/extractor/common"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(DefaultRules())
	require.NoError(t, err)
	return p
}

func hasWarning(warnings []Warning, target error) bool {
	for _, w := range warnings {
		if errors.Is(w, target) {
			return true
		}
	}
	return false
}

func TestRun_PipeLineEndToEnd(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"312345|John Smith|01.02.23||1500,00|0,00|ID: 8501015800086"}, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "312345", rec.AccountID)
	assert.Equal(t, "John Smith", rec.AccountName)
	assert.Equal(t, "2023-02-01", rec.LastVisit.Format(common.DateLayout))
	assert.Equal(t, common.SentinelDate, rec.LastPayment.Format(common.DateLayout))
	assert.Equal(t, "1500.00", rec.Current.StringFixed(2))
	assert.Equal(t, "0.00", rec.Outstanding.StringFixed(2))
	assert.Equal(t, "8501015800086", rec.IDNumber)

	assert.False(t, res.Stats.TableFound)
	assert.True(t, hasWarning(res.Warnings, ErrTableNotFound))
	assert.True(t, hasWarning(res.Warnings, ErrInvalidAccountFormat))
}

func TestRun_NilInput(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Run(nil, DelimiterAuto)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestRun_EmptyInput(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{}, DelimiterAuto)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestRun_PreambleAndRepeatedHeaders(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"Dr A Practice",
		"Aged accounts as at 31.01.24",
		"",
		"Acc|Patient|Visit|Balance",
		"---|---|---|---",
		"00312345|John Smith|01.02.23|1.500,00",
		"9123456|Jane Doe|05.03.24|200,00-",
		"Acc|Patient|Visit|Balance",
		"---|---|---|---",
		"0271234|Sam Brown|07.03.24|0,00",
	}

	res, err := p.Run(lines, DelimiterAuto)
	require.NoError(t, err)
	assert.True(t, res.Stats.TableFound)
	assert.Equal(t, "pipe", res.Stats.Delimiter)
	assert.Equal(t, 3, res.Stats.Lines)
	assert.Equal(t, 3, res.Stats.Qualified)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "N00312345", res.Records[0].AccountID)
	assert.Equal(t, "John Smith", res.Records[0].AccountName)
	assert.Equal(t, "1500.00", res.Records[0].Outstanding.StringFixed(2))
	assert.Equal(t, "U9123456", res.Records[1].AccountID)
	assert.Equal(t, "-200.00", res.Records[1].Outstanding.StringFixed(2))
	assert.Equal(t, "2024-03-05", res.Records[1].LastVisit.Format(common.DateLayout))
	assert.Equal(t, "E0271234", res.Records[2].AccountID)
	assert.False(t, hasWarning(res.Warnings, ErrTableNotFound))
}

func TestRun_HeaderMappedRows(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"Account|Name|Type|Last Visit|Last Payment|Current|30 Days|60 Days|90 Days|120 Days|150 Days|Outstanding|Status|ID Number|Claim",
		"---|---|---|---|---|---|---|---|---|---|---|---|---|---|---",
		"00312345|John Smith|PVT|01.02.23|15.02.23|100,00|200,00||||50,00|350,00|ACTIVE|8501015800086|MA-77",
	}

	res, err := p.Run(lines, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	row := res.Records[0].Row()
	assert.Equal(t, []string{
		"N00312345", "John Smith", "PVT", "2023-02-01", "2023-02-15",
		"100.00", "200.00", "0.00", "0.00", "0.00", "50.00", "350.00",
		"ACTIVE", "8501015800086", "MA-77",
	}, row)
}

func TestRun_CSVHeaderRow(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"account,name,outstanding,id",
		`0512345,"Doe, Jane","1.234,56",8501015800086`,
	}

	res, err := p.Run(lines, DelimiterComma)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "N0512345", rec.AccountID)
	assert.Equal(t, "Doe, Jane", rec.AccountName)
	assert.Equal(t, "1234.56", rec.Outstanding.StringFixed(2))
	assert.Equal(t, "8501015800086", rec.IDNumber)
}

func TestRun_HeaderlessCommaLines(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"N003123, John Smith, 05.03.24, 1500",
		"E027123, Jane Doe, 06.03.24, 200",
	}

	res, err := p.Run(lines, DelimiterAuto)
	require.NoError(t, err)
	assert.Equal(t, "csv", res.Stats.Delimiter)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "N003123", res.Records[0].AccountID)
	assert.Equal(t, "John Smith", res.Records[0].AccountName)
	assert.Equal(t, "1500.00", res.Records[0].Outstanding.StringFixed(2))
	assert.Equal(t, "E027123", res.Records[1].AccountID)
}

func TestRun_CommaTitleLineIsNotData(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"Aged accounts, all practices",
		"N003123, John Smith, 05.03.24, 1500",
	}

	res, err := p.Run(lines, DelimiterAuto)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "N003123", res.Records[0].AccountID)
	assert.Equal(t, 1, res.Stats.Lines)
}

func TestRun_OCRLines(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"AGED ACCOUNTS",
		"N003123    Jane Doe    05.03.24    06.04.24    10,00    20,00    30,00",
		"",
		"page 2 of 2",
	}

	res, err := p.Run(lines, DelimiterWhitespace)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "N003123", rec.AccountID)
	assert.Equal(t, "Jane Doe", rec.AccountName)
	assert.Equal(t, "2024-03-05", rec.LastVisit.Format(common.DateLayout))
	assert.Equal(t, "2024-04-06", rec.LastPayment.Format(common.DateLayout))
	assert.Equal(t, "10.00", rec.Current.StringFixed(2))
	assert.Equal(t, "20.00", rec.Days30.StringFixed(2))
	assert.Equal(t, "30.00", rec.Outstanding.StringFixed(2))
	assert.Equal(t, common.Unknown, rec.IDNumber)
	assert.Equal(t, 3, res.Stats.Lines)
	assert.Equal(t, 1, res.Stats.Qualified)
}

func TestRun_DuplicatesKeepFirst(t *testing.T) {
	p := newTestPipeline(t)

	lines := []string{
		"N003123|First|ID: 8501015800086|10,00",
		"N003123|Second|ID: 8501015800086|20,00",
	}

	res, err := p.Run(lines, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "First", res.Records[0].AccountName)
	assert.Equal(t, 1, res.Stats.Duplicates)
	assert.True(t, hasWarning(res.Warnings, ErrDuplicateRecord))
}

func TestRun_EmptyNameBecomesUnknown(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"N003123||10,00"}, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, common.Unknown, res.Records[0].AccountName)
}

func TestRun_ShortLabeledID(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"N003123|Jane|ID: 850101580008"}, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, common.Unknown, res.Records[0].IDNumber)
	assert.True(t, hasWarning(res.Warnings, ErrUnparseableField))
}

func TestRun_AmbiguousAccountFlagged(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"00312345|John|10,00"}, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "N00312345", res.Records[0].AccountID)
	assert.True(t, hasWarning(res.Warnings, ErrAmbiguousAccount))
}

func TestRun_WarningsSortedByLine(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{
		"N003123|A|ID: 8501015800086|x1",
		"N003123|B|ID: 8501015800086",
		"abc123|C|5,00",
	}, DelimiterPipe)
	require.NoError(t, err)

	last := 0
	for _, w := range res.Warnings {
		assert.GreaterOrEqual(t, w.Line, last)
		last = w.Line
	}
}

func TestResult_JSON(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"N003123|Jane|05.03.24|10,00"}, DelimiterPipe)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)

	var out struct {
		Records  []map[string]string `json:"records"`
		Warnings []map[string]any    `json:"warnings"`
		Stats    Stats               `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out.Records, 1)
	assert.Equal(t, "2024-03-05", out.Records[0]["last_visit"])
	assert.Equal(t, "10.00", out.Records[0]["outstanding"])
	assert.Equal(t, 1, out.Stats.Records)
	require.NotEmpty(t, out.Warnings)
	assert.Equal(t, ErrTableNotFound.Error(), out.Warnings[0]["error"])
}

func TestResult_JSONEmptyArrays(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"Acc|Patient|Visit|Balance", "---|---|---|---", "N003123|Jane|05.03.24|10,00"}, DelimiterPipe)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"warnings":[]`)

	res, err = p.Run([]string{}, DelimiterPipe)
	require.NoError(t, err)
	b, err = json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"records":[]`)
}

func TestNew_InvalidRules(t *testing.T) {
	r := DefaultRules()
	r.DatePattern = "("
	_, err := New(r)
	assert.Error(t, err)

	r = DefaultRules()
	r.Fallbacks = []FallbackRule{{Lead: "0a", Prefix: "N"}}
	_, err = New(r)
	assert.Error(t, err)
}
