package model

import "time"

const Anonymous = "Anonymous"

// Comment is attached to an external post by its opaque ID. Replies point
// at their parent; removing a parent removes the whole subtree while
// removing a user only detaches their comments.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	PostID    string    `gorm:"size:500;not null;index"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`

	UserID *uint `gorm:"index"`
	User   *User `gorm:"constraint:OnDelete:SET NULL;"`

	ParentID *uint     `gorm:"index"`
	Replies  []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"`
}
