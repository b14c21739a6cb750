package calcwkr

import (
	"time"

	"github.com/lottostats/backend/internal/pkg/observability"
)

func observeCalcDuration(service string, task string, f func() error) error {
	start := time.Now()
	defer func() {
		observability.WorkerCalcDuration.WithLabelValues(service, task).Set(time.Since(start).Seconds())
	}()
	return f()
}
