package models

import "time"

// OrderItem is a snapshot of one cart line at checkout time.
type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"id"`
	OrderID   string   `json:"-" gorm:"type:varchar(36);index" bson:"-"`
	ProductID string   `json:"productId" gorm:"type:varchar(36)" bson:"productId"`
	Product   *Product `json:"product" gorm:"foreignKey:ProductID" bson:"-"`
	Quantity  int      `json:"quantity" bson:"quantity"`
}

// Order represents a customer order.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Username  string      `json:"username" gorm:"type:varchar(100);not null;index" bson:"username"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID" bson:"items"`
	Total     float64     `json:"total" bson:"total"`
	Phone     string      `json:"phone" bson:"phone"`
	Address   string      `json:"address" bson:"address"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index" bson:"status"`
	CreatedAt time.Time   `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalCustomers int64   `json:"totalCustomers"`
	OrdersToday    int64   `json:"ordersToday"`
	RevenueToday   float64 `json:"revenueToday"`
	RevenueMonth   float64 `json:"revenueMonth"`
}
