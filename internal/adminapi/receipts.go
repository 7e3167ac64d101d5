package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/toughpos/internal/pos"
	"github.com/talkincode/toughpos/internal/webserver"
)

// registerReceiptRoutes registers receipt rendering endpoints
func registerReceiptRoutes() {
	webserver.ApiGET("/receipts", getReceipt)
	webserver.ApiPOST("/receipts/email", emailReceipt)
}

// getReceipt renders a committed sale. HTML is returned as a document body,
// text inside the JSON envelope, matching the register UI's expectations.
func getReceipt(c echo.Context) error {
	transactionID, err := strconv.ParseInt(c.QueryParam("transaction_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Transaction ID is required", nil)
	}
	format := c.QueryParam("format")
	if format == "" {
		format = pos.ReceiptFormatHTML
	}
	if format != pos.ReceiptFormatHTML && format != pos.ReceiptFormatText {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", `Invalid format. Use "html" or "text"`, nil)
	}

	detail, err := GetPos(c).GetTransaction(c.Request().Context(), transactionID)
	if err != nil {
		return failErr(c, err)
	}

	receipt, err := pos.RenderReceipt(detail, format)
	if err != nil {
		return failErr(c, err)
	}

	if format == pos.ReceiptFormatHTML {
		return c.HTML(http.StatusOK, receipt)
	}
	return ok(c, receipt)
}

type emailReceiptRequest struct {
	TransactionID int64  `json:"transaction_id,string"`
	To            string `json:"to"`
}

// emailReceipt sends the HTML rendering of a sale to the given address using
// the configured SMTP settings.
func emailReceipt(c echo.Context) error {
	var req emailReceiptRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if req.TransactionID == 0 || strings.TrimSpace(req.To) == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "transaction_id and to are required", nil)
	}

	detail, err := GetPos(c).GetTransaction(c.Request().Context(), req.TransactionID)
	if err != nil {
		return failErr(c, err)
	}
	receipt, err := pos.RenderReceipt(detail, pos.ReceiptFormatHTML)
	if err != nil {
		return failErr(c, err)
	}

	subject := fmt.Sprintf("Receipt #%d - %s", req.TransactionID, pos.StoreName)
	if err := webserver.GetApp(c).SendReceiptEmail(req.To, subject, receipt); err != nil {
		return fail(c, http.StatusInternalServerError, "MAIL_ERROR", "Failed to send receipt", err.Error())
	}

	webserver.OpLog(c, "email_receipt", fmt.Sprintf("transaction %d to %s", req.TransactionID, req.To))
	return ok(c, echo.Map{"sent": true})
}
