package features

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

const ledgerCSV = `TransactionId,BatchId,AccountId,CustomerId,TransactionStartTime,Value
T1,B1,A1,C1,2019-01-01 10:00:00,100.0
T2,B2,A1,C1,2019-01-02 11:00:00,200.0
T3,B3,A2,C2,2019-01-03 12:00:00,50.0
`

func TestReadTable_EngineerWriteFeatures(t *testing.T) {
	table, err := ReadTable(strings.NewReader(ledgerCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	rows, _, err := EngineerTable(table)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, rows))

	assert.Equal(t, "CustomerId,Recency,Frequency,Monetary\nC1,2,2,300.0\nC2,1,1,50.0\n", buf.String())
}

func TestWriteFeatures_EmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, nil))
	assert.Equal(t, "CustomerId,Recency,Frequency,Monetary\n", buf.String())

	rows, err := ReadFeatures(&buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadFeatures(t *testing.T) {
	in := "CustomerId,Recency,Frequency,Monetary\nC1,2,2,300.0\nC9,40,7,-12.75\n"
	rows, err := ReadFeatures(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []domain.CustomerFeatures{
		{CustomerID: "C1", Recency: 2, Frequency: 2, Monetary: 300},
		{CustomerID: "C9", Recency: 40, Frequency: 7, Monetary: -12.75},
	}, rows)
}

func TestReadFeatures_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing column", "CustomerId,Recency,Frequency\nC1,1,1\n", domain.ErrSchema},
		{"bad recency", "CustomerId,Recency,Frequency,Monetary\nC1,x,1,1.0\n", domain.ErrParse},
		{"bad monetary", "CustomerId,Recency,Frequency,Monetary\nC1,1,1,abc\n", domain.ErrParse},
		{"ragged", "CustomerId,Recency,Frequency,Monetary\nC1,1\n", domain.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFeatures(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadTable_EmptyInputHasNoColumns(t *testing.T) {
	table, err := ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	_, err = ParseTransactions(table)
	assert.ErrorIs(t, err, domain.ErrSchema)
}

func TestFormatMonetary(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{300, "300.0"},
		{0, "0.0"},
		{-12.5, "-12.5"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1e21, "1000000000000000000000.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMonetary(tt.in))
	}
}
