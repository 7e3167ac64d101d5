package domain

import "time"

// Product is a catalog item sellable at the register. Stock is mutated by
// catalog edits and by the sale committer's conditional decrement only.
type Product struct {
	ID        int64     `gorm:"primaryKey" json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Price     float64   `gorm:"type:decimal(10,2)" json:"price" form:"price"`
	Stock     int       `json:"stock" form:"stock"`
	Category  string    `gorm:"size:100" json:"category" form:"category"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
