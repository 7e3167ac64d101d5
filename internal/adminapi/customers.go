package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/internal/webserver"
	"github.com/talkincode/toughpos/pkg/common"
)

type customerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// registerCustomerRoutes registers customer CRUD routes
func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPUT("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Customer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR phone LIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR phone LIKE ?", "%"+strings.ToLower(q)+"%", "%"+q+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var customers []domain.Customer
	if err := db.Order("name ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, customers, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var customer domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, customer)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	customer := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Phone:     strings.TrimSpace(payload.Phone),
		Email:     strings.TrimSpace(payload.Email),
		Address:   strings.TrimSpace(payload.Address),
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&customer).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	webserver.OpLog(c, "create_customer", fmt.Sprintf("customer %d %s", customer.ID, customer.Name))
	return ok(c, customer)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var customer domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	customer.Name = payload.Name
	customer.Phone = strings.TrimSpace(payload.Phone)
	customer.Email = strings.TrimSpace(payload.Email)
	customer.Address = strings.TrimSpace(payload.Address)

	if err := GetDB(c).Save(&customer).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	webserver.OpLog(c, "update_customer", fmt.Sprintf("customer %d %s", customer.ID, customer.Name))
	return ok(c, customer)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Customer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}
	webserver.OpLog(c, "delete_customer", fmt.Sprintf("customer %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
