package pos

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/toughpos/internal/domain"
)

func receiptFixture() *TransactionDetail {
	return &TransactionDetail{
		Transaction: domain.Transaction{
			ID:              8001,
			TotalAmount:     45000,
			PaymentAmount:   50000,
			ChangeAmount:    5000,
			PaymentMethod:   domain.PaymentMethodCash,
			TransactionDate: time.Date(2026, 8, 28, 13, 45, 30, 0, time.Local),
		},
		Items: []TransactionItemDetail{
			{ProductID: 1, ProductName: "Rice (1 kg)", Quantity: 3, Price: 15000},
		},
	}
}

func TestRenderReceiptText(t *testing.T) {
	out, err := RenderReceipt(receiptFixture(), ReceiptFormatText)
	require.NoError(t, err)

	assert.Contains(t, out, StoreName)
	assert.Contains(t, out, StoreAddress)
	assert.Contains(t, out, "Receipt #: 8001")
	assert.Contains(t, out, "28/08/2026 13:45:30")
	assert.Contains(t, out, "Rice (1 kg)")
	assert.Contains(t, out, "3 x Rp 15,000")
	assert.Contains(t, out, "Rp 45,000")
	assert.Contains(t, out, "Rp 50,000")
	assert.Contains(t, out, "Rp 5,000")
	assert.Contains(t, out, "Payment Method: Cash")
	assert.Contains(t, out, "Thank you for your purchase!")
	assert.NotContains(t, out, "<html")
}

func TestRenderReceiptHTML(t *testing.T) {
	out, err := RenderReceipt(receiptFixture(), ReceiptFormatHTML)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Receipt - #8001</title>")
	assert.Contains(t, out, StoreName)
	assert.Contains(t, out, "<td>Rice (1 kg)</td>")
	assert.Contains(t, out, "Total: Rp 45,000")
	assert.Contains(t, out, "Change: Rp 5,000")
}

func TestRenderReceiptEscapesHTML(t *testing.T) {
	detail := receiptFixture()
	detail.Items[0].ProductName = `Milk <1 L> & "fresh"`

	out, err := RenderReceipt(detail, ReceiptFormatHTML)
	require.NoError(t, err)
	assert.Contains(t, out, "Milk &lt;1 L&gt; &amp; &#34;fresh&#34;")
	assert.NotContains(t, out, "<1 L>")
}

func TestRenderReceiptDeterministic(t *testing.T) {
	first, err := RenderReceipt(receiptFixture(), ReceiptFormatText)
	require.NoError(t, err)
	second, err := RenderReceipt(receiptFixture(), ReceiptFormatText)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderReceiptEmptyTransaction(t *testing.T) {
	_, err := RenderReceipt(nil, ReceiptFormatText)
	assert.ErrorIs(t, err, ErrEmptyTransaction)

	detail := receiptFixture()
	detail.Items = nil
	_, err = RenderReceipt(detail, ReceiptFormatHTML)
	assert.ErrorIs(t, err, ErrEmptyTransaction)
}

func TestRenderReceiptInvalidFormat(t *testing.T) {
	_, err := RenderReceipt(receiptFixture(), "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid receipt format")
}
