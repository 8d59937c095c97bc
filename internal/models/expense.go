package models

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Expense represents a submitted expense entry. Entries are never edited.
type Expense struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Reason       string    `json:"reason"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
}

// User represents a user account. The email doubles as the username.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// LoginResponse is returned by a successful authentication.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// EmployeeSummary aggregates spending for one employee.
type EmployeeSummary struct {
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	FirstName    string    `json:"firstName"`
	TotalSpent   float64   `json:"totalSpent"`
	Entries      int       `json:"entries"`
	Active       bool      `json:"active"`
	LastActive   time.Time `json:"lastActive"`
}
