package models

import "time"

// Product represents a drink or dish on the menu.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Price         float64   `json:"price" bson:"price"`
	Image         string    `json:"image" bson:"image"`
	ImagePublicID string    `json:"imagePublicId" gorm:"column:image_public_id" bson:"imagePublicId"`
	Description   string    `json:"description" bson:"description"`
	Category      string    `json:"category" gorm:"index" bson:"category"` // category id or name, not enforced
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Category is a named grouping of products. Deleting one leaves products untouched.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null" bson:"name" validate:"required,max=100"`
}
