package models

import "gorm.io/gorm"

type Task struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Category    string `gorm:"not null"`
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"size:500"`

	Completions []TaskCompletion
}

// TaskCompletion is one completion-ledger entry: a task completed on a
// UTC calendar day. The unique index is the idempotency boundary for
// client retries.
type TaskCompletion struct {
	gorm.Model
	TaskID   uint   `gorm:"index:idx_task_day,unique;not null"`
	UserID   uint   `gorm:"index;not null"`
	Category string `gorm:"not null"`
	Day      string `gorm:"index:idx_task_day,unique;size:10;not null"` // YYYY-MM-DD
}
