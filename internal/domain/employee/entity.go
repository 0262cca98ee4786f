package employee

import (
	"time"
)

// Role of a user inside the company.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
)

// Employee carries the identity fields the notification router needs:
// name, email and department.
type Employee struct {
	ID         string
	Name       string
	Email      string
	Department string
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
