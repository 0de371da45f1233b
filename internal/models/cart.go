package models

import "time"

// CartItem is one (user, product) line of a shopping cart.
// Product is joined on read and is nil when the product no longer exists.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_user_product" bson:"username"`
	ProductID string    `json:"productId" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product" bson:"productId"`
	Product   *Product  `json:"product" gorm:"foreignKey:ProductID" bson:"-"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
