package domain

import "time"

type Customer struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Phone     string    `gorm:"size:20" json:"phone" form:"phone"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email" form:"email"`
	Address   string    `json:"address" form:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
