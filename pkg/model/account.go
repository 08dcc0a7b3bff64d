package model

import "time"

type AccountKind string

const (
	AccountCustomer AccountKind = "customer"
	AccountStaff    AccountKind = "staff"
)

type Account struct {
	ID           string      `json:"id,omitempty" bson:"_id,omitempty"`
	Kind         AccountKind `json:"kind" bson:"kind"`
	Email        string      `json:"email" bson:"email" validate:"required,email,max=254"`
	Name         string      `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone        string      `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Department   string      `json:"department,omitempty" bson:"department,omitempty" validate:"omitempty,department"`
	PasswordHash string      `json:"-" bson:"password_hash"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
}

type Registration struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Kind     AccountKind `json:"kind" validate:"required,oneof=customer staff"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   *Account  `json:"account"`
}

type StaffRegistration struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Department string `json:"department" validate:"required,department"`
}
