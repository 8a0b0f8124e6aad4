package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

func sampleLedger(t *testing.T) *Table {
	t.Helper()
	table, err := FromColumns(map[string][]string{
		"CustomerId":    {"C1", "C1", "C2"},
		"TransactionId": {"T1", "T2", "T3"},
		"TransactionStartTime": {
			"2019-01-01 10:00:00",
			"2019-01-02 11:00:00",
			"2019-01-03 12:00:00",
		},
		"Value": {"100.0", "200.0", "50.0"},
	})
	require.NoError(t, err)
	return table
}

func byCustomer(rows []domain.CustomerFeatures) map[string]domain.CustomerFeatures {
	m := make(map[string]domain.CustomerFeatures, len(rows))
	for _, r := range rows {
		m[r.CustomerID] = r
	}
	return m
}

func at(s string) time.Time {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestEngineerTable_Scenario(t *testing.T) {
	rows, snapshot, err := EngineerTable(sampleLedger(t))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2019, 1, 4, 12, 0, 0, 0, time.UTC), snapshot)
	assert.Equal(t, []domain.CustomerFeatures{
		{CustomerID: "C1", Recency: 2, Frequency: 2, Monetary: 300.0},
		{CustomerID: "C2", Recency: 1, Frequency: 1, Monetary: 50.0},
	}, rows)
}

func TestEngineer_EmptyLedger(t *testing.T) {
	rows := Engineer(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	_, ok := Snapshot(nil)
	assert.False(t, ok)
}

func TestEngineerTable_HeaderOnly(t *testing.T) {
	table, err := NewTable(RequiredColumns, nil)
	require.NoError(t, err)

	rows, snapshot, err := EngineerTable(table)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.True(t, snapshot.IsZero())
}

func TestEngineer_SameTimestampGivesRecencyOne(t *testing.T) {
	ts := at("2020-05-05 08:30:00")
	rows := Engineer([]domain.Transaction{
		{CustomerID: "A", TransactionID: "1", StartTime: ts, Value: 1},
		{CustomerID: "B", TransactionID: "2", StartTime: ts, Value: 2},
		{CustomerID: "C", TransactionID: "3", StartTime: ts, Value: 3},
	})

	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 1, r.Recency, r.CustomerID)
	}
}

func TestEngineer_RecencyTruncatesPartialDays(t *testing.T) {
	rows := Engineer([]domain.Transaction{
		{CustomerID: "late", StartTime: at("2021-03-10 23:59:59"), Value: 1},
		// 1 day 23h59m59s before the latest, plus the 1-day offset: 2.99 days
		{CustomerID: "early", StartTime: at("2021-03-09 00:00:00"), Value: 1},
	})

	got := byCustomer(rows)
	assert.Equal(t, 1, got["late"].Recency)
	assert.Equal(t, 2, got["early"].Recency)
}

func TestEngineer_RecencyOverCenturies(t *testing.T) {
	// 1700-01-01 to the 2019-01-02 snapshot is wider than time.Duration can hold.
	rows := Engineer([]domain.Transaction{
		{CustomerID: "old", StartTime: at("1700-01-01 00:00:00"), Value: 1},
		{CustomerID: "new", StartTime: at("2019-01-01 00:00:00"), Value: 1},
	})

	got := byCustomer(rows)
	assert.Equal(t, 116513, got["old"].Recency)
	assert.Equal(t, 1, got["new"].Recency)
}

func TestEngineer_RecencySubSecondRemainder(t *testing.T) {
	latest := time.Date(2020, 6, 1, 12, 0, 0, 500, time.UTC)
	rows := Engineer([]domain.Transaction{
		{CustomerID: "latest", StartTime: latest, Value: 1},
		// 2 days minus 1ns before the snapshot truncates to 1.
		{CustomerID: "edge", StartTime: latest.Add(-24*time.Hour + time.Nanosecond), Value: 1},
	})

	got := byCustomer(rows)
	assert.Equal(t, 1, got["latest"].Recency)
	assert.Equal(t, 1, got["edge"].Recency)
}

func TestEngineer_FrequencyCountsDuplicateIDs(t *testing.T) {
	ts := at("2022-01-01")
	rows := Engineer([]domain.Transaction{
		{CustomerID: "C1", TransactionID: "T1", StartTime: ts, Value: 10},
		{CustomerID: "C1", TransactionID: "T1", StartTime: ts, Value: 10},
		{CustomerID: "C1", TransactionID: "T2", StartTime: ts, Value: 10},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Frequency)
	assert.Equal(t, 30.0, rows[0].Monetary)
}

func TestEngineer_MonetaryKeepsSign(t *testing.T) {
	ts := at("2022-01-01")
	rows := Engineer([]domain.Transaction{
		{CustomerID: "refund", StartTime: ts, Value: 500},
		{CustomerID: "refund", StartTime: ts, Value: -500},
		{CustomerID: "negative", StartTime: ts, Value: -20.5},
	})

	got := byCustomer(rows)
	assert.Equal(t, 0.0, got["refund"].Monetary)
	assert.Equal(t, -20.5, got["negative"].Monetary)
}

func TestEngineer_Properties(t *testing.T) {
	ledger := []domain.Transaction{
		{CustomerID: "CustomerId_1", TransactionID: "T1", StartTime: at("2018-11-15T02:18:49Z"), Value: 1000},
		{CustomerID: "CustomerId_2", TransactionID: "T2", StartTime: at("2018-11-15T02:19:08Z"), Value: -20},
		{CustomerID: "CustomerId_1", TransactionID: "T3", StartTime: at("2018-12-01T10:00:00Z"), Value: 500},
		{CustomerID: "CustomerId_3", TransactionID: "T4", StartTime: at("2019-02-13T09:54:09Z"), Value: 0.1},
		{CustomerID: "CustomerId_2", TransactionID: "T5", StartTime: at("2019-01-20T12:12:12Z"), Value: 0.2},
		{CustomerID: "CustomerId_3", TransactionID: "T6", StartTime: at("2019-02-01T00:00:00Z"), Value: 0.7},
	}

	rows := Engineer(ledger)

	wantCount := map[string]int{}
	wantSum := map[string]float64{}
	for _, tx := range ledger {
		wantCount[tx.CustomerID]++
		wantSum[tx.CustomerID] += tx.Value
	}

	got := byCustomer(rows)
	assert.Len(t, got, len(wantCount), "one row per distinct customer")
	for id, n := range wantCount {
		row, ok := got[id]
		require.True(t, ok, id)
		assert.Equal(t, n, row.Frequency, id)
		assert.Equal(t, wantSum[id], row.Monetary, id)
		assert.GreaterOrEqual(t, row.Recency, 0, id)
	}
	assert.Equal(t, 1, got["CustomerId_3"].Recency)

	assert.Equal(t, rows, Engineer(ledger), "idempotent")
}

func TestEngineer_OrderIndependentRowSet(t *testing.T) {
	a := []domain.Transaction{
		{CustomerID: "B", StartTime: at("2020-01-02"), Value: 1},
		{CustomerID: "A", StartTime: at("2020-01-01"), Value: 2},
	}
	b := []domain.Transaction{a[1], a[0]}

	assert.ElementsMatch(t, Engineer(a), Engineer(b))
}

func TestEngineerTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cols    map[string][]string
		wantErr error
	}{
		{
			name: "missing Value column",
			cols: map[string][]string{
				"CustomerId":           {"C1"},
				"TransactionId":        {"T1"},
				"TransactionStartTime": {"2019-01-01 10:00:00"},
			},
			wantErr: domain.ErrSchema,
		},
		{
			name: "missing CustomerId column",
			cols: map[string][]string{
				"TransactionId":        {"T1"},
				"TransactionStartTime": {"2019-01-01 10:00:00"},
				"Value":                {"1"},
			},
			wantErr: domain.ErrSchema,
		},
		{
			name: "bad timestamp",
			cols: map[string][]string{
				"CustomerId":           {"C1", "C1"},
				"TransactionId":        {"T1", "T2"},
				"TransactionStartTime": {"2019-01-01 10:00:00", "yesterday"},
				"Value":                {"1", "2"},
			},
			wantErr: domain.ErrParse,
		},
		{
			name: "bad value",
			cols: map[string][]string{
				"CustomerId":           {"C1"},
				"TransactionId":        {"T1"},
				"TransactionStartTime": {"2019-01-01 10:00:00"},
				"Value":                {"ten"},
			},
			wantErr: domain.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := FromColumns(tt.cols)
			require.NoError(t, err)

			_, _, err = EngineerTable(table)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
