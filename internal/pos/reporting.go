package pos

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/talkincode/toughpos/internal/domain"
)

// DashboardData is the figure set shown on the register dashboard.
type DashboardData struct {
	TodaySales       float64 `json:"today_sales"`
	TransactionCount int64   `json:"transaction_count"`
	TopProducts      string  `json:"top_products"`
}

// SalesReportRow is one day of a date-range sales report.
type SalesReportRow struct {
	Date             string  `json:"date"`
	TransactionCount int64   `json:"transaction_count"`
	DailyTotal       float64 `json:"daily_total"`
}

// SalesReportSummary aggregates the daily totals of a report.
type SalesReportSummary struct {
	Days        int     `json:"days"`
	GrandTotal  float64 `json:"grand_total"`
	MeanDaily   float64 `json:"mean_daily"`
	MedianDaily float64 `json:"median_daily"`
	BestDaily   float64 `json:"best_daily"`
}

// TopProduct is a product ranked by quantity sold.
type TopProduct struct {
	ProductID   int64  `json:"product_id,string"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
}

// TransactionSummary is a transaction header with the recomputed item total,
// as returned by the transaction listing.
type TransactionSummary struct {
	ID              int64     `json:"id,string"`
	CustomerID      *int64    `json:"customer_id,omitempty"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentAmount   float64   `json:"payment_amount"`
	ChangeAmount    float64   `json:"change_amount"`
	PaymentMethod   string    `json:"payment_method"`
	TransactionDate time.Time `json:"transaction_date"`
	CalculatedTotal float64   `json:"calculated_total"`
}

// TransactionItemDetail is a sold line joined with its product name.
type TransactionItemDetail struct {
	ProductID   int64   `json:"product_id,string"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// TransactionDetail is a full committed sale: header plus every line.
type TransactionDetail struct {
	Transaction domain.Transaction      `json:"transaction"`
	Items       []TransactionItemDetail `json:"items"`
}

func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// GetDashboardData returns today's sales total, today's transaction count and
// a comma-joined list of today's top three product names ("-" when none).
func (s *Service) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	start, end := dayRange(time.Now())

	data := &DashboardData{TopProducts: "-"}

	err := s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TodaySales).Error
	if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}

	err = s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", start, end).
		Count(&data.TransactionCount).Error
	if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}

	top, err := s.GetTopSellingProducts(ctx, 3, &start, &end)
	if err != nil {
		return nil, err
	}
	if len(top) > 0 {
		names := make([]string, 0, len(top))
		for _, p := range top {
			names = append(names, p.ProductName)
		}
		data.TopProducts = strings.Join(names, ", ")
	}

	return data, nil
}

// GetTopSellingProducts ranks products by quantity sold, optionally limited
// to the [start, end) range. A nil range means all time.
func (s *Service) GetTopSellingProducts(ctx context.Context, limit int, start, end *time.Time) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}

	q := s.db.WithContext(ctx).Table("transaction_items ti").
		Select("ti.product_id as product_id, p.name as product_name, SUM(ti.quantity) as total_sold").
		Joins("JOIN products p ON ti.product_id = p.id")
	if start != nil && end != nil {
		q = q.Joins("JOIN transactions t ON ti.transaction_id = t.id").
			Where("t.transaction_date >= ? AND t.transaction_date < ?", *start, *end)
	}

	var rows []TopProduct
	err := q.Group("ti.product_id, p.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}
	return rows, nil
}

// GetTransactions lists committed transactions newest first, each with the
// total recomputed from its line items.
func (s *Service) GetTransactions(ctx context.Context, limit int) ([]TransactionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []TransactionSummary
	err := s.db.WithContext(ctx).Table("transactions t").
		Select("t.id, t.customer_id, t.total_amount, t.payment_amount, t.change_amount, "+
			"t.payment_method, t.transaction_date, "+
			"COALESCE(SUM(ti.quantity * ti.price), 0) as calculated_total").
		Joins("LEFT JOIN transaction_items ti ON t.id = ti.transaction_id").
		Group("t.id, t.customer_id, t.total_amount, t.payment_amount, t.change_amount, " +
			"t.payment_method, t.transaction_date").
		Order("t.transaction_date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}
	return rows, nil
}

// GetTransaction fetches one committed sale with its line items and product
// names. The id is the sole handle reporting and receipts work from.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*TransactionDetail, error) {
	var header domain.Transaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(ErrItemNotFound, "transaction %d", id)
	} else if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}

	var items []TransactionItemDetail
	err = s.db.WithContext(ctx).Table("transaction_items ti").
		Select("ti.product_id as product_id, p.name as product_name, ti.quantity, ti.price").
		Joins("LEFT JOIN products p ON ti.product_id = p.id").
		Where("ti.transaction_id = ?", id).
		Order("ti.id").
		Scan(&items).Error
	if err != nil {
		return nil, errors.Wrap(ErrStoreFailure, err.Error())
	}

	return &TransactionDetail{Transaction: header, Items: items}, nil
}

// GetSalesReport aggregates committed sales per day over [startDate, endDate]
// inclusive. Date strings are parsed tolerantly; days with no sales are
// omitted, matching the register's report view.
func (s *Service) GetSalesReport(ctx context.Context, startDate, endDate string) ([]SalesReportRow, *SalesReportSummary, error) {
	start, err := dateparse.ParseIn(startDate, time.Local)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidLineItem, "invalid start date %q", startDate)
	}
	end, err := dateparse.ParseIn(endDate, time.Local)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidLineItem, "invalid end date %q", endDate)
	}

	rangeStart, _ := dayRange(start)
	_, rangeEnd := dayRange(end)

	var headers []domain.Transaction
	err = s.db.WithContext(ctx).
		Where("transaction_date >= ? AND transaction_date < ?", rangeStart, rangeEnd).
		Order("transaction_date").
		Find(&headers).Error
	if err != nil {
		return nil, nil, errors.Wrap(ErrStoreFailure, err.Error())
	}

	byDay := map[string]*SalesReportRow{}
	for _, t := range headers {
		day := t.TransactionDate.Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &SalesReportRow{Date: day}
			byDay[day] = row
		}
		row.TransactionCount++
		row.DailyTotal += t.TotalAmount
	}

	rows := make([]SalesReportRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	summary := &SalesReportSummary{Days: len(rows)}
	if len(rows) > 0 {
		totals := make([]float64, 0, len(rows))
		for _, row := range rows {
			totals = append(totals, row.DailyTotal)
			summary.GrandTotal += row.DailyTotal
		}
		summary.MeanDaily, _ = stats.Mean(totals)
		summary.MedianDaily, _ = stats.Median(totals)
		summary.BestDaily, _ = stats.Max(totals)
	}

	return rows, summary, nil
}
