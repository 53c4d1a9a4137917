package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pypanta/blog-comments-api/internal/model"

	"gorm.io/gorm"
)

// ContactInbox stores messages from the public contact form for admins
type ContactInbox struct {
	db *gorm.DB
}

func NewContactInbox(db *gorm.DB) *ContactInbox {
	return &ContactInbox{db: db}
}

type NewContact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (in *NewContact) missing() []string {
	var m []string

	for _, f := range []struct{ name, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"subject", in.Subject},
		{"message", in.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			m = append(m, f.name)
		}
	}

	return m
}

func (b *ContactInbox) Create(ctx context.Context, in NewContact) (*model.Contact, error) {
	if missing := in.missing(); len(missing) > 0 {
		return nil, invalid(fmt.Sprintf("[ %s ] is required field(s)", strings.Join(missing, ", ")))
	}

	c := &model.Contact{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := b.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to store contact, %w", err)
	}

	return c, nil
}

// ListUnread returns unread messages, newest first
func (b *ContactInbox) ListUnread(ctx context.Context) ([]model.Contact, error) {
	contacts := []model.Contact{}

	err := b.db.WithContext(ctx).
		Where("is_read = ?", false).
		Order("created_at desc, id desc").
		Find(&contacts).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts, %w", err)
	}

	return contacts, nil
}

func (b *ContactInbox) MarkRead(ctx context.Context, id uint) error {
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c model.Contact

		if err := tx.Select("id").First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}

			return err
		}

		return tx.Model(&c).Update("is_read", true).Error
	})
}

func (b *ContactInbox) Delete(ctx context.Context, id uint) error {
	r := b.db.WithContext(ctx).Delete(&model.Contact{}, id)
	if r.Error != nil {
		return fmt.Errorf("failed to delete contact, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrContactNotFound
	}

	return nil
}
