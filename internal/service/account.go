package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pypanta/blog-comments-api/internal/model"
	"github.com/pypanta/blog-comments-api/pkg/security"
	"github.com/pypanta/blog-comments-api/pkg/validators"

	"gorm.io/gorm"
)

// Accounts owns user registration, credential checks and profile changes
type Accounts struct {
	db    *gorm.DB
	argon *security.ArgonHash
}

func NewAccounts(db *gorm.DB, argon *security.ArgonHash) *Accounts {
	return &Accounts{db: db, argon: argon}
}

type RegisterInput struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

// ProfileInput overwrites username and about as given, a nil value clears
// the field. Password is only changed when both password fields are set.
type ProfileInput struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	About           *string `json:"about"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

func (in *RegisterInput) validate() error {
	fields := []struct {
		name  string
		value *string
		check func(string) error
	}{
		{"username", in.Username, validators.UsernameValidator},
		{"email", in.Email, validators.EmailValidator},
		{"password", in.Password, validators.PasswordValidator},
		{"password_confirm", in.PasswordConfirm, nil},
	}

	for _, f := range fields {
		if f.value == nil {
			return invalid(f.name + " is required")
		}

		if f.check == nil {
			continue
		}

		if err := f.check(*f.value); err != nil {
			return invalid(err.Error())
		}
	}

	if *in.Password != *in.PasswordConfirm {
		return invalid(validators.ErrPasswordMismatch.Error())
	}

	return nil
}

func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := a.argon.GenerateFromPassword(*in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        *in.Email,
		PasswordHash: hash,
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, user.Username, user.Email, 0); err != nil {
			return err
		}

		return tx.Create(user).Error
	})
	if err != nil {
		return nil, a.uniqueViolation(ctx, err, user.Username, user.Email, 0)
	}

	return user, nil
}

// Authenticate looks the user up by email or username, the login form
// uses a single field for both
func (a *Accounts) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	if identifier == "" {
		return nil, ErrUserNotFound
	}

	var user model.User

	err := a.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		Order("id").
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := a.argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, ErrWrongPassword
	}

	return &user, nil
}

func (a *Accounts) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &user, nil
}

// UpdateProfile applies in to u and persists it. emailChanged tells the
// caller that tokens issued for the old address no longer resolve and a
// new session has to be handed out.
func (a *Accounts) UpdateProfile(ctx context.Context, u *model.User, in ProfileInput) (emailChanged bool, err error) {
	if in.Email == nil || *in.Email == "" {
		return false, invalid(validators.ErrEmailEmpty.Error())
	}

	if err := validators.EmailValidator(*in.Email); err != nil {
		return false, invalid(err.Error())
	}

	if in.Username != nil {
		if err := validators.UsernameValidator(*in.Username); err != nil {
			return false, invalid(err.Error())
		}
	}

	updated := *u

	if nonEmpty(in.Password) && nonEmpty(in.PasswordConfirm) {
		if *in.Password != *in.PasswordConfirm {
			return false, invalid(validators.ErrPasswordMismatch.Error())
		}

		if err := validators.PasswordValidator(*in.Password); err != nil {
			return false, invalid(err.Error())
		}

		hash, err := a.argon.GenerateFromPassword(*in.Password)
		if err != nil {
			return false, fmt.Errorf("failed to hash password, %w", err)
		}

		updated.PasswordHash = hash
	}

	updated.Username = in.Username
	updated.About = in.About
	updated.Email = *in.Email

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkUnique(tx, updated.Username, updated.Email, u.ID); err != nil {
			return err
		}

		return tx.Save(&updated).Error
	})
	if err != nil {
		return false, a.uniqueViolation(ctx, err, updated.Username, updated.Email, u.ID)
	}

	emailChanged = u.Email != updated.Email
	*u = updated

	return emailChanged, nil
}

// PromoteAdmin grants admin rights to the user with the given email or
// username
func (a *Accounts) PromoteAdmin(ctx context.Context, identifier string) error {
	r := a.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ? OR username = ?", identifier, identifier).
		Update("is_admin", true)
	if r.Error != nil {
		return fmt.Errorf("failed to promote user, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// checkUnique reports which of username and email already belongs to a
// user other than exceptID
func checkUnique(tx *gorm.DB, username *string, email string, exceptID uint) error {
	taken := func(column, value string) (bool, error) {
		var n int64

		err := tx.Model(&model.User{}).
			Where(column+" = ? AND id <> ?", value, exceptID).
			Count(&n).
			Error

		return n > 0, err
	}

	if username != nil {
		found, err := taken("username", *username)
		if err != nil {
			return fmt.Errorf("failed to check username, %w", err)
		}

		if found {
			return &ConflictError{Field: "username"}
		}
	}

	found, err := taken("email", email)
	if err != nil {
		return fmt.Errorf("failed to check email, %w", err)
	}

	if found {
		return &ConflictError{Field: "email"}
	}

	return nil
}

// uniqueViolation turns a duplicate key error from the storage layer into
// a ConflictError. The constraint that fired is identified by repeating
// the uniqueness check, not by inspecting the driver's message.
func (a *Accounts) uniqueViolation(ctx context.Context, err error, username *string, email string, exceptID uint) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	var ce *ConflictError
	if cerr := checkUnique(a.db.WithContext(ctx), username, email, exceptID); errors.As(cerr, &ce) {
		return ce
	}

	return &ConflictError{}
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
