package worker

import (
	"context"
	"fmt"
	"time"
	"todoList/internal/logger"
	"todoList/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

type StatsSource interface {
	Stats(ctx context.Context) (repository.Stats, error)
}

// StatsWorker периодически пересчитывает задачи и выставляет gauge
// todos{state="total"|"done"|"open"}.
type StatsWorker struct {
	source   StatsSource
	interval time.Duration
	gauge    *prometheus.GaugeVec
}

func NewStatsWorker(source StatsSource, reg prometheus.Registerer, interval *time.Duration) *StatsWorker {
	intervalToSet := DefaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}

	gauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "todos",
			Help: "Number of todos in the store by state",
		},
		[]string{"state"},
	)
	reg.MustRegister(gauge)

	return &StatsWorker{
		source:   source,
		interval: intervalToSet,
		gauge:    gauge,
	}
}

// Start блокируется до отмены ctx. Первый пересчёт выполняется сразу.
func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Сбор статистики запущен", zap.Duration("interval", w.interval))
	w.collect(ctx)

	for {
		select {
		case <-ticker.C:
			w.collect(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Сбор статистики останавливается")
			return
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	if err := w.Collect(ctx); err != nil {
		logger.Warn("Worker: Ошибка сбора статистики", zap.Error(err))
	}
}

// Collect выполняет один пересчёт.
func (w *StatsWorker) Collect(ctx context.Context) error {
	start := time.Now()

	stats, err := w.source.Stats(ctx)
	if err != nil {
		return fmt.Errorf("получение статистики: %w", err)
	}

	w.gauge.WithLabelValues("total").Set(float64(stats.Total))
	w.gauge.WithLabelValues("done").Set(float64(stats.Done))
	w.gauge.WithLabelValues("open").Set(float64(stats.Total - stats.Done))

	logger.Debug("Worker: Статистика обновлена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("total", stats.Total),
		zap.Int("done", stats.Done))
	return nil
}
