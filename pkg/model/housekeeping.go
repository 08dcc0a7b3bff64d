package model

import "time"

type HousekeepingStatus string

const (
	HousekeepingPending    HousekeepingStatus = "Pending"
	HousekeepingInProgress HousekeepingStatus = "In-Progress"
	HousekeepingCompleted  HousekeepingStatus = "Completed"
)

type HousekeepingRequest struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty"`
	Reference     string             `json:"reference" bson:"reference"`
	RoomNumber    string             `json:"room_number" bson:"room_number" validate:"required,min=1,max=10"`
	RequestTypes  []string           `json:"request_types" bson:"request_types" validate:"required,min=1,dive,request_type"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CustomerEmail string             `json:"customer_email,omitempty" bson:"customer_email,omitempty" validate:"omitempty,email,max=254"`
	CustomerName  string             `json:"customer_name,omitempty" bson:"customer_name,omitempty" validate:"omitempty,max=100"`
	Status        HousekeepingStatus `json:"status" bson:"status"`
	AssignedTo    string             `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	StartedAt     *time.Time         `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type HousekeepingCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

type HousekeepingAssignment struct {
	AssignedTo string `json:"assigned_to"`
}
