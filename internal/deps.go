package internal

import (
	"time"

	"github.com/pypanta/blog-comments-api/internal/service"
	"github.com/pypanta/blog-comments-api/pkg/security"

	"gorm.io/gorm"
)

// Deps is handed to every handler
type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Tokens   *security.TokenIssuer
	Cookies  *security.CookieOpts
	Accounts *service.Accounts
	Comments *service.CommentStore
	Contacts *service.ContactInbox

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SessionConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Cookies    security.CookieOpts
}

func NewDeps(db *gorm.DB, argon *security.ArgonHash, s SessionConfig) *Deps {
	cookies := s.Cookies

	return &Deps{
		DB:         db,
		Argon:      argon,
		Tokens:     security.NewTokenIssuer(s.Secret),
		Cookies:    &cookies,
		Accounts:   service.NewAccounts(db, argon),
		Comments:   service.NewCommentStore(db),
		Contacts:   service.NewContactInbox(db),
		AccessTTL:  s.AccessTTL,
		RefreshTTL: s.RefreshTTL,
	}
}
