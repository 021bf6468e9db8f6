package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/internal/sanitize"
)

type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

func (r *RegisterInput) Sanitize() {
	r.Name = sanitize.Markup(r.Name)
	r.Email = sanitize.Text(r.Email)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r *LoginInput) Sanitize() {
	r.Email = sanitize.Text(r.Email)
}

// UpdateProfileInput changes whichever of Name and Email is non-empty.
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *UpdateProfileInput) Sanitize() {
	r.Name = sanitize.Markup(r.Name)
	r.Email = sanitize.Text(r.Email)
}

type ChangePasswordInput struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
		validation.Field(&r.ConfirmPassword, validation.Required),
	)
}

type ResendVerificationInput struct {
	Email string `json:"email"`
}

func (r *ResendVerificationInput) Sanitize() {
	r.Email = sanitize.Text(r.Email)
}

// requireFields turns a field validation failure into a 400 naming the missing fields.
func requireFields(v validation.Validatable) error {
	if err := v.Validate(); err != nil {
		return apperrors.Validation(MsgMissingFields).WithCause(err)
	}
	return nil
}

// checkEmail rejects syntactically invalid addresses with a 422.
func checkEmail(email string) error {
	if err := validation.Validate(email, is.Email); err != nil {
		return apperrors.Unprocessable(MsgInvalidEmail).WithCause(err)
	}
	return nil
}
