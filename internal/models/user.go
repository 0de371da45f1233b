package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role tags what a user may do. Only two exist.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents an account of the café app, either a customer or an admin.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Username       string     `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" bson:"username"`
	Password       string     `json:"-" gorm:"type:varchar(255);not null" bson:"password"` // bcrypt hash, never serialized
	FirstName      string     `json:"firstName" bson:"firstName"`
	LastName       string     `json:"lastName" bson:"lastName"`
	Email          string     `json:"email" bson:"email"`
	Phone          string     `json:"phone" bson:"phone"`
	Avatar         string     `json:"avatar" bson:"avatar"`
	AvatarPublicID string     `json:"avatarPublicId" gorm:"column:avatar_public_id" bson:"avatarPublicId"`
	Addresses      StringList `json:"addresses" gorm:"type:text" bson:"addresses"`
	Role           Role       `json:"role" gorm:"type:varchar(20);default:'customer';index" bson:"role"`
	Locked         bool       `json:"locked" bson:"locked"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasAddress reports whether address is one of the user's saved addresses.
func (u *User) HasAddress(address string) bool {
	for _, a := range u.Addresses {
		if a == address {
			return true
		}
	}
	return false
}

// StringList is an ordered list of strings persisted as a JSON array in SQL
// columns and as a native array in documents.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = out
	return nil
}

// MarshalJSON renders a nil list as an empty array.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
