package models

// Counter backs the order number sequence. The value is only ever changed
// through a single atomic increment statement, never read-then-write.
type Counter struct {
	Name  string `gorm:"primaryKey" json:"name"`
	Value int64  `gorm:"not null" json:"value"`
}

// TableName specifies the table name for the Counter model
func (Counter) TableName() string {
	return "counters"
}

// AllModels lists every model for AutoMigrate, dependencies first
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&ProductSize{},
		&ProductAddOn{},
		&ProductOption{},
		&Order{},
		&LineItem{},
		&LineItemAddOn{},
		&Counter{},
	}
}
