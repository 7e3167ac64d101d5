package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/talkincode/toughpos/internal/pos"
	"github.com/talkincode/toughpos/internal/webserver"
)

// saleItemPayload tolerates both key spellings used by the register UIs
// ("id" from the dashboard, "productId" from the POS screen). json.Number
// keeps non-numeric values detectable instead of silently coerced.
type saleItemPayload struct {
	ID        json.Number `json:"id"`
	ProductID json.Number `json:"productId"`
	Price     json.Number `json:"price"`
	Quantity  json.Number `json:"quantity"`
}

// normalizeCartItem folds a loose payload line into the one canonical
// CartItem shape the core accepts. The core never sees payload variants.
func normalizeCartItem(p saleItemPayload) (pos.CartItem, error) {
	raw := p.ID
	if raw.String() == "" {
		raw = p.ProductID
	}
	productID, err := raw.Int64()
	if err != nil || productID == 0 {
		return pos.CartItem{}, fmt.Errorf("invalid item ID %q", raw.String())
	}

	price := 0.0
	if p.Price.String() != "" {
		if price, err = p.Price.Float64(); err != nil {
			return pos.CartItem{}, fmt.Errorf("invalid price for item %d", productID)
		}
	}

	quantity := int64(1)
	if p.Quantity.String() != "" {
		if quantity, err = p.Quantity.Int64(); err != nil {
			return pos.CartItem{}, fmt.Errorf("invalid quantity for item %d", productID)
		}
	}

	return pos.CartItem{ProductID: productID, Price: price, Quantity: int(quantity)}, nil
}

func normalizeCart(items []saleItemPayload) ([]pos.CartItem, error) {
	cart := make([]pos.CartItem, 0, len(items))
	for _, item := range items {
		normalized, err := normalizeCartItem(item)
		if err != nil {
			return nil, err
		}
		cart = append(cart, normalized)
	}
	return cart, nil
}

type processPaymentRequest struct {
	Items         []saleItemPayload `json:"items"`
	PaymentAmount json.Number       `json:"payment_amount"`
	PaymentMethod string            `json:"payment_method"`
	CustomerID    json.Number       `json:"customer_id"`
}

type processSaleRequest struct {
	processPaymentRequest
	TotalAmount  json.Number `json:"total_amount"`
	ChangeAmount json.Number `json:"change_amount"`
}

func parseCustomerID(raw json.Number) *int64 {
	if raw.String() == "" {
		return nil
	}
	if id, err := raw.Int64(); err == nil && id != 0 {
		return &id
	}
	return nil
}

// registerSalesRoutes registers sale processing and reporting reads
func registerSalesRoutes() {
	webserver.ApiPOST("/sales/validate", validatePayment)
	webserver.ApiPOST("/sales/payment", processPayment)
	webserver.ApiPOST("/sales", processSale)
	webserver.ApiGET("/sales/transactions", getTransactions)
	webserver.ApiGET("/sales/transactions/:id", getTransaction)
	webserver.ApiGET("/sales/dashboard", getDashboardData)
	webserver.ApiGET("/sales/top-products", getTopSellingProducts)
	webserver.ApiGET("/sales/report", getSalesReport)
}

// validatePayment runs the advisory pre-commit check only; no stock moves.
func validatePayment(c echo.Context) error {
	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment data", err.Error())
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payment data", nil)
	}
	cart, err := normalizeCart(req.Items)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LINE_ITEM", err.Error(), nil)
	}
	tendered, err := req.PaymentAmount.Float64()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payment amount", nil)
	}

	result, err := GetPos(c).ValidatePayment(c.Request().Context(), cart, tendered)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, result)
}

// processPayment validates and commits one sale.
func processPayment(c echo.Context) error {
	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payment data", err.Error())
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payment data", nil)
	}
	cart, err := normalizeCart(req.Items)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LINE_ITEM", err.Error(), nil)
	}
	tendered, err := req.PaymentAmount.Float64()
	if err != nil || tendered < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payment amount", nil)
	}

	result, err := GetPos(c).ProcessPayment(c.Request().Context(), cart, tendered,
		req.PaymentMethod, parseCustomerID(req.CustomerID))
	if err != nil {
		return failErr(c, err)
	}

	webserver.OpLog(c, "process_payment",
		fmt.Sprintf("transaction %d total %.2f", result.TransactionID, result.Total))
	return ok(c, result)
}

// processSale commits a sale whose money fields were computed by the caller;
// the committer still re-verifies stock and reconciliation.
func processSale(c echo.Context) error {
	var req processSaleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse sale data", err.Error())
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid sale data", nil)
	}
	cart, err := normalizeCart(req.Items)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LINE_ITEM", err.Error(), nil)
	}

	total, err := req.TotalAmount.Float64()
	if err != nil || total < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid sale data", nil)
	}
	tendered, err := req.PaymentAmount.Float64()
	if err != nil || tendered < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid sale data", nil)
	}
	change := tendered - total
	if req.ChangeAmount.String() != "" {
		if change, err = req.ChangeAmount.Float64(); err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid sale data", nil)
		}
	}

	transactionID, err := GetPos(c).CommitSale(c.Request().Context(), cart, total, tendered, change,
		req.PaymentMethod, parseCustomerID(req.CustomerID))
	if err != nil {
		return failErr(c, err)
	}

	webserver.OpLog(c, "process_sale", fmt.Sprintf("transaction %d total %.2f", transactionID, total))
	return ok(c, echo.Map{
		"transaction_id": strconv.FormatInt(transactionID, 10),
		"message":        "Sale processed successfully",
	})
}

func getTransactions(c echo.Context) error {
	limit := cast.ToInt(c.QueryParam("limit"))
	rows, err := GetPos(c).GetTransactions(c.Request().Context(), limit)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getTransaction(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid transaction ID", nil)
	}
	detail, err := GetPos(c).GetTransaction(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, detail)
}

func getDashboardData(c echo.Context) error {
	data, err := GetPos(c).GetDashboardData(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, data)
}

func getTopSellingProducts(c echo.Context) error {
	limit := cast.ToInt(c.QueryParam("limit"))
	rows, err := GetPos(c).GetTopSellingProducts(c.Request().Context(), limit, nil, nil)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getSalesReport(c echo.Context) error {
	startDate := c.QueryParam("start_date")
	endDate := c.QueryParam("end_date")
	if startDate == "" {
		startDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}

	rows, summary, err := GetPos(c).GetSalesReport(c.Request().Context(), startDate, endDate)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, echo.Map{"rows": rows, "summary": summary})
}
