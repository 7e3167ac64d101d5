package app

import (
	"fmt"
	"strconv"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/internal/pos"
	"github.com/talkincode/toughpos/pkg/metrics"
)

func (a *Application) subscribeSaleEvents() {
	if err := a.bus.SubscribeAsync(pos.TopicSaleCommitted, a.onSaleCommitted, false); err != nil {
		zap.S().Errorf("subscribe sale events error: %s", err)
	}
}

// onSaleCommitted runs after a sale is durable: metrics, low-stock warnings
// and the optional webhook. Nothing here can undo the commit.
func (a *Application) onSaleCommitted(evt pos.SaleCommitted) {
	metrics.Record(metrics.MetricSaleCount, 1)
	metrics.Record(metrics.MetricSaleAmount, evt.Total)

	threshold := a.GetSettingsInt64Value("pos", "low_stock_threshold")
	if threshold <= 0 {
		threshold = 5
	}
	for _, item := range evt.Items {
		var product domain.Product
		if err := a.gormDB.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
			continue
		}
		if int64(product.Stock) <= threshold {
			zap.L().Warn("low stock after sale",
				zap.Int64("product_id", product.ID),
				zap.String("name", product.Name),
				zap.Int("stock", product.Stock))
		}
	}

	a.notifyWebhook(evt)
}

func (a *Application) notifyWebhook(evt pos.SaleCommitted) {
	url := a.GetSettingsStringValue("notify", "webhook_url")
	if url == "" {
		return
	}

	body := map[string]interface{}{
		"event":          pos.TopicSaleCommitted,
		"transaction_id": strconv.FormatInt(evt.TransactionID, 10),
		"total":          evt.Total,
		"method":         evt.Method,
		"committed_at":   evt.CommittedAt,
	}
	var code int
	err := gout.POST(url).SetJSON(body).Code(&code).Do()
	if err != nil {
		zap.S().Warnf("sale webhook error: %s", err)
		return
	}
	if code >= 300 {
		zap.S().Warnf("sale webhook returned status %d", code)
	}
}

// SendReceiptEmail delivers an HTML receipt using the configured SMTP
// settings. An unset host means mail is disabled.
func (a *Application) SendReceiptEmail(to, subject, body string) error {
	settings, err := a.configManager.GetSmtpSettings()
	if err != nil {
		return err
	}
	if settings.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", settings.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
	return d.DialAndSend(m)
}
