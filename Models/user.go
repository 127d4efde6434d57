package Models

import (
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;size:64"`
	Password []byte `json:"-"`
	Role     string `json:"role" gorm:"default:student"`
}
