package models

// User represents the user model in the database
type User struct {
	Base
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Password  string `gorm:"not null" json:"-"`
	Email     string `gorm:"not null;default:''" json:"email"`
	FirstName string `gorm:"column:firstname;not null;default:''" json:"firstname"`
	LastName  string `gorm:"column:lastname;not null;default:''" json:"lastname"`
}
