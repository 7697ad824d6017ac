package txnlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumAndAvgField(t *testing.T) {
	lg := newTestLogger(t, Config{})

	require.NoError(t, lg.Info(Transaction{"amount": 10}))
	require.NoError(t, lg.Info(Transaction{"amount": 20}))
	require.NoError(t, lg.Info(Transaction{"amount": "x"}))

	sum, err := lg.SumField("amount")
	require.NoError(t, err)
	assert.Equal(t, 30.0, sum)

	avg, ok, err := lg.AvgField("amount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 15.0, avg)
}

func TestSumFieldNumericStrings(t *testing.T) {
	lg := newTestLogger(t, Config{})

	require.NoError(t, lg.Info(Transaction{"amount": "12.5"}))
	require.NoError(t, lg.Info(Transaction{"amount": true}))
	require.NoError(t, lg.Info(Transaction{"other": 99}))

	sum, err := lg.SumField("amount")
	require.NoError(t, err)
	assert.Equal(t, 12.5, sum)
}

func TestAvgFieldEmptySubset(t *testing.T) {
	lg := newTestLogger(t, Config{})

	require.NoError(t, lg.Info(Transaction{"amount": "not numeric"}))

	avg, ok, err := lg.AvgField("amount")
	require.NoError(t, err)
	assert.False(t, ok, "no numeric values must yield an explicit no-value result")
	assert.Zero(t, avg)

	_, ok, err = lg.AvgField("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 7, 7, true},
		{"uint", uint(3), 3, true},
		{"numeric string", " 42 ", 42, true},
		{"non-numeric string", "x", 0, false},
		{"nil", nil, 0, false},
		{"map", map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericValue(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
