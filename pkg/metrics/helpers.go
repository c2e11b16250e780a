package metrics

import (
	"database/sql"
	"time"
)

type DbOperation string

const (
	DbOpSelect DbOperation = "select"
	DbOpInsert DbOperation = "insert"
	DbOpUpdate DbOperation = "update"
	DbOpDelete DbOperation = "delete"
)

type DbTimer struct {
	service   string
	operation DbOperation
	table     string
	start     time.Time
}

func NewDbTimer(service string, op DbOperation, table string) *DbTimer {
	return &DbTimer{
		service:   service,
		operation: op,
		table:     table,
		start:     time.Now(),
	}
}

func (dt *DbTimer) ObserveDuration() {
	duration := time.Since(dt.start).Seconds()
	DbQueryDuration.WithLabelValues(dt.service, string(dt.operation), dt.table).Observe(duration)
}

func RecordDbError(service string, op DbOperation) {
	DbErrors.WithLabelValues(service, string(op)).Inc()
}

// ObserveDbPool снимает показания пула соединений database/sql
// Вызывается периодически из фонового тикера в main
func ObserveDbPool(service string, db *sql.DB) {
	stats := db.Stats()
	DbConnectionsOpen.WithLabelValues(service, "in_use").Set(float64(stats.InUse))
	DbConnectionsOpen.WithLabelValues(service, "idle").Set(float64(stats.Idle))
}
