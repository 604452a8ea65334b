package report_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavolo/internal/core/businessday"
	"tavolo/internal/core/types"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/reports"
)

const legacyPayload = `{
	"createdAt": 1755861300000,
	"orderCount": 2,
	"total": 12.5,
	"totalsByPayment": {"CASH": 10, "QR_CODE": 2.5, "CARD": 0, "OTHER": 0},
	"items": [
		{"itemId": "018f5e2a-0000-7000-8000-000000000001", "name": "Cola", "unitPrice": 2.5, "quantity": 5, "total": 12.5}
	],
	"orders": [
		{"id": "018f5e2a-0000-7000-8000-0000000000aa", "shortId": "clh1", "orderNumber": 1, "totalAmount": 10},
		{"id": "018f5e2a-0000-7000-8000-0000000000ab", "shortId": "clh2", "orderNumber": 2, "totalAmount": 2.5}
	]
}`

func TestDecodePayload_LegacySingleRun(t *testing.T) {
	date := businessday.Date("2025-08-22")

	report, err := DecodePayload(date, []byte(legacyPayload))
	require.NoError(t, err)
	require.Len(t, report.Runs, 1)

	run := report.Runs[0]
	assert.Equal(t, int64(1755861300000), run.CreatedAt)
	assert.Equal(t, 2, run.OrderCount)
	assert.True(t, run.Total.Equal(types.MustMoney("12.5")))
	assert.True(t, run.TotalsByPayment[orders.PaymentCash].Equal(types.MustMoney("10")))
	assert.True(t, run.TotalsByPayment[orders.PaymentQRCode].Equal(types.MustMoney("2.5")))

	require.Len(t, run.Items, 1)
	assert.Equal(t, "Cola", run.Items[0].Name)
	assert.Equal(t, 5, run.Items[0].Quantity)

	require.Len(t, run.Orders, 2)
	assert.Equal(t, "clh1", run.Orders[0].ShortID)
	assert.Equal(t, 2, run.Orders[1].OrderNumber)
}

func TestDecodePayload_CurrentRunsShape(t *testing.T) {
	date := businessday.Date("2025-08-22")
	payload := `{"runs": [{"createdAt": 1, "orderCount": 0, "total": 0}, {"createdAt": 2, "orderCount": 1, "total": 5}]}`

	report, err := DecodePayload(date, []byte(payload))
	require.NoError(t, err)
	require.Len(t, report.Runs, 2)
	assert.Equal(t, int64(1), report.Runs[0].CreatedAt)
	assert.Equal(t, 1, report.Runs[1].OrderCount)
}

func TestDecodePayload_EmptyRunsList(t *testing.T) {
	report, err := DecodePayload("2025-08-22", []byte(`{"runs": []}`))
	require.NoError(t, err)
	assert.NotNil(t, report.Runs)
	assert.Len(t, report.Runs, 0)
}

func TestDecodePayload_Garbage(t *testing.T) {
	_, err := DecodePayload("2025-08-22", []byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	report := &reports.DayReport{
		Date: "2025-08-22",
		Runs: []reports.Run{
			{
				CreatedAt:  1755861300000,
				OrderCount: 1,
				Total:      types.MustMoney("7.50"),
				TotalsByPayment: map[orders.PaymentMethod]types.Money{
					orders.PaymentCash: types.MustMoney("7.50"),
				},
			},
		},
	}

	payload, err := EncodePayload(report)
	require.NoError(t, err)

	decoded, err := DecodePayload(report.Date, payload)
	require.NoError(t, err)
	require.Len(t, decoded.Runs, 1)
	assert.True(t, decoded.Runs[0].Total.Equal(report.Runs[0].Total))
	assert.Equal(t, report.Runs[0].OrderCount, decoded.Runs[0].OrderCount)
}

func TestDecodePayload_LegacyUpgradeIsLossless(t *testing.T) {
	// Upgrading then re-encoding must preserve the run content.
	date := businessday.Date("2025-08-21")

	upgraded, err := DecodePayload(date, []byte(legacyPayload))
	require.NoError(t, err)

	payload, err := EncodePayload(upgraded)
	require.NoError(t, err)

	again, err := DecodePayload(date, payload)
	require.NoError(t, err)
	require.Len(t, again.Runs, 1)
	assert.Equal(t, upgraded.Runs[0].CreatedAt, again.Runs[0].CreatedAt)
	assert.True(t, again.Runs[0].Total.Equal(upgraded.Runs[0].Total))
	assert.Len(t, again.Runs[0].Orders, 2)
}
