package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/internal/webserver"
	"github.com/talkincode/toughpos/pkg/common"
)

type productPayload struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	Remark   string  `json:"remark"`
}

func (p *productPayload) check() string {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" {
		return "Name is required"
	}
	if p.Price < 0 {
		return "Price must be >= 0"
	}
	if p.Stock < 0 {
		return "Stock must be >= 0"
	}
	return ""
}

// registerProductRoutes registers catalog CRUD and CSV exchange endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiGET("/products/export/csv", exportProductsCsv)
	webserver.ApiPOST("/products/import/csv", importProductsCsv)
}

func listProducts(c echo.Context) error {
	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}

	var rows []domain.Product
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg := payload.check(); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Price:     payload.Price,
		Stock:     payload.Stock,
		Category:  payload.Category,
		Remark:    payload.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	webserver.OpLog(c, "create_product", fmt.Sprintf("product %d %s", p.ID, p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if msg := payload.check(); msg != "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	p.Name = payload.Name
	p.Price = payload.Price
	p.Stock = payload.Stock
	p.Category = payload.Category
	p.Remark = payload.Remark
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	webserver.OpLog(c, "update_product", fmt.Sprintf("product %d %s", p.ID, p.Name))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	webserver.OpLog(c, "delete_product", fmt.Sprintf("product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

type productCsvRow struct {
	ID       int64   `csv:"id"`
	Name     string  `csv:"name"`
	Price    float64 `csv:"price"`
	Stock    int     `csv:"stock"`
	Category string  `csv:"category"`
}

func exportProductsCsv(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("name ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	rows := make([]productCsvRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productCsvRow{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			Category: p.Category,
		})
	}

	data, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export products", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=products.csv")
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}

// importProductsCsv creates or replaces catalog rows from an uploaded CSV.
// Rows without an id get a new one.
func importProductsCsv(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "CSV file is required", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	var rows []productCsvRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse CSV", err.Error())
	}

	now := time.Now()
	imported := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" || row.Price < 0 || row.Stock < 0 {
			continue
		}
		p := domain.Product{
			ID:        row.ID,
			Name:      strings.TrimSpace(row.Name),
			Price:     row.Price,
			Stock:     row.Stock,
			Category:  strings.TrimSpace(row.Category),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.ID == 0 {
			p.ID = common.UUIDint64()
		}
		if err := GetDB(c).Save(&p).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import products", err.Error())
		}
		imported++
	}

	webserver.OpLog(c, "import_products", fmt.Sprintf("imported %d products", imported))
	return ok(c, map[string]interface{}{"imported": imported})
}
