package pos

import (
	"fmt"
	"html"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Receipt output formats.
const (
	ReceiptFormatText = "text"
	ReceiptFormatHTML = "html"
)

// Store identity printed on every receipt.
const (
	StoreName    = "TOKO SERBA ADA"
	StoreAddress = "Jl. Raya No. 123, Jakarta"
	StorePhone   = "Telp: 021-123456"
)

const receiptWidth = 38

var rupiah = message.NewPrinter(language.English)

func formatRupiah(v float64) string {
	return rupiah.Sprintf("Rp %.0f", v)
}

// RenderReceipt formats a committed sale as plain text or HTML markup. The
// output is deterministic given its input. A detail with zero items means
// the id never resolved to a real sale and yields ErrEmptyTransaction.
func RenderReceipt(detail *TransactionDetail, format string) (string, error) {
	if detail == nil || len(detail.Items) == 0 {
		return "", ErrEmptyTransaction
	}
	switch format {
	case ReceiptFormatText:
		return renderReceiptText(detail), nil
	case ReceiptFormatHTML:
		return renderReceiptHTML(detail), nil
	default:
		return "", fmt.Errorf("invalid receipt format %q: use %q or %q",
			format, ReceiptFormatHTML, ReceiptFormatText)
	}
}

func centerLine(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func moneyLine(label string, v float64) string {
	amount := formatRupiah(v)
	gap := receiptWidth - len(label) - len(amount)
	if gap < 1 {
		gap = 1
	}
	return label + strings.Repeat(" ", gap) + amount
}

func renderReceiptText(detail *TransactionDetail) string {
	t := detail.Transaction
	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	var b strings.Builder
	b.WriteString(centerLine(StoreName) + "\n")
	b.WriteString(centerLine(StoreAddress) + "\n")
	b.WriteString(centerLine(StorePhone) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("Receipt #: %d\n", t.ID))
	b.WriteString(fmt.Sprintf("Date     : %s\n", t.TransactionDate.Format("02/01/2006 15:04:05")))
	b.WriteString(thin + "\n")
	for _, item := range detail.Items {
		b.WriteString(item.ProductName + "\n")
		b.WriteString(moneyLine(
			fmt.Sprintf("  %d x %s", item.Quantity, formatRupiah(item.Price)),
			item.Price*float64(item.Quantity)) + "\n")
	}
	b.WriteString(thin + "\n")
	b.WriteString(moneyLine("Total", t.TotalAmount) + "\n")
	b.WriteString(moneyLine("Payment", t.PaymentAmount) + "\n")
	b.WriteString(moneyLine("Change", t.ChangeAmount) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(centerLine("Payment Method: "+strings.Title(t.PaymentMethod)) + "\n")
	b.WriteString(centerLine("Thank you for your purchase!") + "\n")
	b.WriteString(centerLine("Please keep this receipt") + "\n")
	return b.String()
}

func renderReceiptHTML(detail *TransactionDetail) string {
	t := detail.Transaction

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(fmt.Sprintf("<title>Receipt - #%d</title>\n", t.ID))
	b.WriteString("<style>body{font-family:monospace;max-width:400px;margin:0 auto;padding:20px;font-size:14px}" +
		".receipt-header{text-align:center;border-bottom:2px solid #333;padding-bottom:10px;margin-bottom:15px}" +
		".items-table{width:100%;border-collapse:collapse;margin-bottom:15px}" +
		".items-table th,.items-table td{border-bottom:1px solid #ddd;padding:5px 0;text-align:left}" +
		".total-row{font-weight:bold;border-top:2px solid #333;padding-top:10px}" +
		".receipt-footer{text-align:center;margin-top:20px;font-size:12px;color:#666}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<div class=\"receipt-header\">\n")
	b.WriteString(fmt.Sprintf("<div class=\"receipt-title\">%s</div>\n", html.EscapeString(StoreName)))
	b.WriteString(fmt.Sprintf("<div class=\"receipt-subtitle\">%s</div>\n", html.EscapeString(StoreAddress)))
	b.WriteString(fmt.Sprintf("<div class=\"receipt-subtitle\">%s</div>\n", html.EscapeString(StorePhone)))
	b.WriteString("</div>\n")
	b.WriteString("<div class=\"receipt-info\">\n")
	b.WriteString(fmt.Sprintf("<div><strong>Receipt #: </strong>%d</div>\n", t.ID))
	b.WriteString(fmt.Sprintf("<div><strong>Date: </strong>%s</div>\n",
		t.TransactionDate.Format("02/01/2006 15:04:05")))
	b.WriteString("</div>\n")
	b.WriteString("<table class=\"items-table\">\n<thead>\n<tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>\n</thead>\n<tbody>\n")
	for _, item := range detail.Items {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(item.ProductName),
			item.Quantity,
			formatRupiah(item.Price),
			formatRupiah(item.Price*float64(item.Quantity))))
	}
	b.WriteString("</tbody>\n</table>\n")
	b.WriteString("<div class=\"total-row\">\n")
	b.WriteString(fmt.Sprintf("<div>Total: %s</div>\n", formatRupiah(t.TotalAmount)))
	b.WriteString(fmt.Sprintf("<div>Payment: %s</div>\n", formatRupiah(t.PaymentAmount)))
	b.WriteString(fmt.Sprintf("<div>Change: %s</div>\n", formatRupiah(t.ChangeAmount)))
	b.WriteString("</div>\n")
	b.WriteString("<div class=\"receipt-footer\">\n")
	b.WriteString(fmt.Sprintf("<div>Payment Method: %s</div>\n", html.EscapeString(strings.Title(t.PaymentMethod))))
	b.WriteString("<div>Thank you for your purchase!</div>\n")
	b.WriteString("<div>Please keep this receipt for your records</div>\n")
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}
