package domain

// NameMaxLength is the width of the name column.
const NameMaxLength = 120

// Column names of the task table. Queries reference these instead of
// relying on GORM's naming strategy.
const (
	TaskTable           = "task"
	TaskColumnID        = "id"
	TaskColumnName      = "name"
	TaskColumnCompleted = "completed"
)

// Task is a single to-do item. A task starts pending and can only move to
// completed; it is never deleted.
type Task struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;size:120;not null"`
	Completed bool   `gorm:"column:completed;not null;default:false"`
}

func (Task) TableName() string {
	return TaskTable
}

// NewTask returns a pending task with the given name.
func NewTask(name string) *Task {
	return &Task{Name: name, Completed: false}
}

// Complete marks the task done. There is no inverse.
func (t *Task) Complete() {
	t.Completed = true
}
