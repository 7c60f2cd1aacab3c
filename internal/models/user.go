package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:80;not null;uniqueIndex:uq_users_username"`
	Email        string `gorm:"size:120;not null;uniqueIndex:uq_users_email"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }
