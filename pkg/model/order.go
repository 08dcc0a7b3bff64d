package model

import "time"

type MenuCategory string

const (
	CategoryFood  MenuCategory = "Food"
	CategoryDrink MenuCategory = "Drink"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderServed    OrderStatus = "Served"
	OrderCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderServed, OrderCancelled},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quantity bounds for a single order line.
const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

type OrderItem struct {
	Name     string `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price    int64  `json:"price" bson:"price"`
	Quantity int    `json:"quantity" bson:"quantity" validate:"required,min=1,max=99"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type Order struct {
	ID                string       `json:"id,omitempty" bson:"_id,omitempty"`
	Reference         string       `json:"reference" bson:"reference"`
	Category          MenuCategory `json:"category" bson:"category" validate:"required,oneof=Food Drink"`
	Items             []OrderItem  `json:"items" bson:"items" validate:"required,min=1,max=50,dive"`
	TableOrRoomNumber string       `json:"table_or_room_number" bson:"table_or_room_number" validate:"required,min=1,max=20"`
	CustomerEmail     string       `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email,max=254"`
	CustomerName      string       `json:"customer_name,omitempty" bson:"customer_name,omitempty" validate:"omitempty,max=100"`
	Notes             string       `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	TotalPrice        int64        `json:"total_price" bson:"total_price"`
	Status            OrderStatus  `json:"status" bson:"status"`
	ServedAt          *time.Time   `json:"served_at,omitempty" bson:"served_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" bson:"updated_at"`
}

type OrderFilter struct {
	Category      MenuCategory
	Status        OrderStatus
	CustomerEmail string
}

type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}
