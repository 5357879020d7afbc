package models

// SchedulerState persists one scheduler's progress marker across restarts.
type SchedulerState struct {
	Name    string `gorm:"primarykey;type:varchar(64)"`
	LastRun string `gorm:"type:varchar(10);not null;default:''"`
}
