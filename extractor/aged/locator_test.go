package aged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateTable(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		offset int
		found  bool
	}{
		{"preamble", []string{"Practice X", "Aged accounts", "Account|Name", "---|---", "1|2"}, 2, true},
		{"indented divider", []string{"Account|Name", "  -----|-----"}, 0, true},
		{"divider first", []string{"---|---", "1|2"}, 0, true},
		{"no divider", []string{"a", "b"}, 0, false},
		{"dashes without pipe", []string{"a", "-----", "b"}, 0, false},
		{"empty", nil, 0, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			offset, found := LocateTable(test.lines)
			assert.Equal(t, test.offset, offset)
			assert.Equal(t, test.found, found)
		})
	}
}

func TestIsDivider(t *testing.T) {
	assert.True(t, isDivider("---|---|---"))
	assert.True(t, isDivider("|:---|---:|"))
	assert.True(t, isDivider("  ------  "))
	assert.False(t, isDivider("--"))
	assert.False(t, isDivider("N003123|---"))
}

func TestRun_TableOffset(t *testing.T) {
	p := newTestPipeline(t)

	res, err := p.Run([]string{"Aged accounts", "Acc|Patient|Balance", "---|---|---", "00312345|John Smith|10,00"}, DelimiterPipe)
	require.NoError(t, err)
	assert.True(t, res.Stats.TableFound)
	assert.Equal(t, 1, res.Stats.Lines)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "N00312345", res.Records[0].AccountID)

	res, err = p.Run([]string{"---|---|---", "00312345|John Smith|10,00"}, DelimiterPipe)
	require.NoError(t, err)
	assert.True(t, res.Stats.TableFound)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "N00312345", res.Records[0].AccountID)
}
