package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin              UserRole = "admin"
	RoleTeacher            UserRole = "teacher"
	RoleUpperManagement    UserRole = "upper-management"
	RoleHighLevelDashboard UserRole = "high-level-dashboard"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleUpperManagement, RoleHighLevelDashboard:
		return true
	}
	return false
}

// RoleList is a JSONB encoded array of roles.
type RoleList []UserRole

// Has reports whether role is part of the list.
func (l RoleList) Has(role UserRole) bool {
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

// Value marshals the list for persistence.
func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		l = RoleList{}
	}
	data, err := json.Marshal([]UserRole(l))
	if err != nil {
		return nil, fmt.Errorf("marshal roles: %w", err)
	}
	return data, nil
}

// Scan unmarshals the JSONB column.
func (l *RoleList) Scan(value interface{}) error {
	return scanJSON(value, l, "roles")
}

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Roles        RoleList  `db:"roles" json:"roles"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func scanJSON(value interface{}, dest interface{}, label string) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, label)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", label, err)
	}
	return nil
}
