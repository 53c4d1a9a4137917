// Package model defines database models
package model

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     *string `gorm:"size:64;uniqueIndex" json:"username"`
	Email        string  `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:128;not null" json:"-"`
	About        *string `gorm:"size:250" json:"about"`
	IsAdmin      bool    `gorm:"default:false;not null" json:"is_admin"`
}

// DisplayName is what other readers see next to a comment
func (u *User) DisplayName() string {
	if u == nil || u.Username == nil || *u.Username == "" {
		return Anonymous
	}

	return *u.Username
}
