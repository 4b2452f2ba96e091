package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/military-assets-api/internal/application/analytics"
	"github.com/jhoicas/military-assets-api/internal/application/dto"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"25":       "25",
		"1500":     "1.500",
		"1000000":  "1.000.000",
		"2.5":      "2,5",
		"1234.125": "1.234,125",
		"-4":       "-4",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInventoryReport(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out, err := NewMarotoReportGenerator().GenerateInventoryReport(context.Background(), analytics.InventoryReport{
		GeneratedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		GeneratedBy: "u-admin",
		BaseID:      "b1",
		From:        &from,
		Rows: []dto.DashboardRowDTO{{
			BaseID: "b1", BaseName: "Alpha", AssetName: "Rifle",
			CurrentQuantity: decimal.NewFromInt(8), ClosingBalance: decimal.NewFromInt(11),
			TotalPurchases: decimal.NewFromInt(15), TransfersOut: decimal.NewFromInt(4),
			NetMovement: decimal.NewFromInt(11),
		}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInventoryReport_SinFilas(t *testing.T) {
	out, err := NewMarotoReportGenerator().GenerateInventoryReport(context.Background(), analytics.InventoryReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
