// Package adminapi exposes the register's HTTP/JSON operations: catalog
// CRUD, sale processing, reporting and receipts.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/pos"
	"github.com/talkincode/toughpos/internal/webserver"
)

// InitRouter registers every adminapi route on the running webserver.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCustomerRoutes()
	registerSalesRoutes()
	registerReportRoutes()
	registerReceiptRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetApp(c).DB()
}

func GetPos(c echo.Context) *pos.Service {
	return webserver.GetApp(c).PosService()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := echo.Map{
		"status":  "error",
		"code":    code,
		"message": message,
	}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

// failErr maps a sales core error to the API envelope, carrying shortage
// diagnostics when present.
func failErr(c echo.Context, err error) error {
	code := pos.ErrorCode(err)

	var detail interface{}
	var stockErr *pos.StockShortageError
	var payErr *pos.PaymentShortageError
	if errors.As(err, &stockErr) {
		detail = echo.Map{
			"product_id": strconv.FormatInt(stockErr.ProductID, 10),
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		}
	} else if errors.As(err, &payErr) {
		detail = echo.Map{
			"required": payErr.Required,
			"provided": payErr.Provided,
		}
	}

	status := http.StatusBadRequest
	switch code {
	case "ITEM_NOT_FOUND", "EMPTY_TRANSACTION":
		status = http.StatusNotFound
	case "INSUFFICIENT_STOCK":
		status = http.StatusConflict
	case "STORE_FAILURE":
		status = http.StatusInternalServerError
	}

	return fail(c, status, code, err.Error(), detail)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "success",
		"data":   rows,
		"pagination": echo.Map{
			"total":    total,
			"page":     page,
			"per_page": pageSize,
		},
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
