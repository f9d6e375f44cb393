package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockLowScan is the task type for the low-stock sweep.
	TaskStockLowScan = "stock:low_scan"
	// TaskReceivablesOverdueScan is the task type for the overdue receivables sweep.
	TaskReceivablesOverdueScan = "receivables:overdue_scan"
)

// LowStockScanPayload configures the low-stock sweep.
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(threshold int) (*asynq.Task, error) {
	data, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockLowScan, data), nil
}

// OverdueScanPayload configures the overdue receivables sweep.
type OverdueScanPayload struct {
	AfterDays int `json:"after_days"`
}

// NewOverdueScanTask constructs an Asynq task.
func NewOverdueScanTask(afterDays int) (*asynq.Task, error) {
	data, err := json.Marshal(OverdueScanPayload{AfterDays: afterDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceivablesOverdueScan, data), nil
}
