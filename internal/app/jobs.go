package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/talkincode/toughpos/internal/domain"
	"github.com/talkincode/toughpos/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedLowStockScanTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("30 2 * * *", func() {
		if err := a.BackupDatabase(); err != nil {
			zap.S().Errorf("backup job error %s", err.Error())
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedSystemMonitorTask samples host cpu/mem gauges into local metrics.
func (a *Application) SchedSystemMonitorTask() {
	percents, err := cpu.Percent(time.Second, false)
	if err == nil && len(percents) > 0 {
		metrics.Record(metrics.MetricSystemCPU, percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.Record(metrics.MetricSystemMem, vm.UsedPercent)
	}
}

// SchedLowStockScanTask warns about products at or below the configured
// stock threshold.
func (a *Application) SchedLowStockScanTask() {
	threshold := a.GetSettingsInt64Value("pos", "low_stock_threshold")
	if threshold <= 0 {
		threshold = 5
	}

	var products []domain.Product
	if err := a.gormDB.Where("stock <= ?", threshold).Find(&products).Error; err != nil {
		zap.S().Errorf("low stock scan error: %s", err)
		return
	}
	for _, p := range products {
		zap.L().Warn("low stock",
			zap.Int64("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock", p.Stock))
	}
}
