package model

import "time"

type Contact struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:120;not null" json:"email"`
	Subject   string    `gorm:"size:250;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	IsRead    bool      `gorm:"default:false;not null;index" json:"is_read"`
}
