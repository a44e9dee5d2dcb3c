package client

import (
	"context"
	"net/http"
)

// Me retrieves the identity of the caller. The request is never served from
// a cache.
func (c Client) Me(ctx context.Context) (*Identity, error) {
	header := http.Header{}
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	identity := new(Identity)
	if _, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/v1/auth/me",
		header: header,
		out:    identity,
		strict: true,
	}); err != nil {
		return nil, err
	}

	return identity, nil
}

// LoginInput is the input of Login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates the user. A bearer token handed out by the backend is
// persisted to the Client's token slot.
func (c Client) Login(ctx context.Context, input LoginInput) (*Identity, error) {
	return c.establish(ctx, http.MethodPost, "/v1/auth/login", input)
}

// RegisterInput is the input of Register.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// Register creates a user and authenticates it. A bearer token handed out by
// the backend is persisted to the Client's token slot.
func (c Client) Register(ctx context.Context, input RegisterInput) (*Identity, error) {
	return c.establish(ctx, http.MethodPost, "/v1/auth/register", input)
}

// UpdateProfileInput is the input of UpdateProfile. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=64"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
}

// UpdateProfile updates the caller's profile. A bearer token handed out by
// the backend is persisted to the Client's token slot.
func (c Client) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*Identity, error) {
	return c.establish(ctx, http.MethodPatch, "/v1/auth/me", input)
}

// Logout ends the caller's session. The persisted bearer token is cleared
// even if the backend could not be reached; the returned error reports the
// backend outcome.
func (c Client) Logout(ctx context.Context) error {
	defer c.slot.ClearToken(ctx)

	_, err := c.do(ctx, call{method: http.MethodPost, path: "/v1/auth/logout"})
	return err
}

// DeleteAccount deletes the caller's account. The persisted bearer token is
// cleared once the backend confirms the deletion.
func (c Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.do(ctx, call{method: http.MethodDelete, path: "/v1/auth/me"}); err != nil {
		return err
	}

	c.slot.ClearToken(ctx)
	return nil
}

// RequestEmailVerification asks the backend to send a verification email to
// the caller.
func (c Client) RequestEmailVerification(ctx context.Context) error {
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/v1/auth/verify-email/request"})
	return err
}

// VerifyEmailInput is the input of VerifyEmail.
type VerifyEmailInput struct {
	Token string `json:"token" validate:"required"`
}

// VerifyEmail confirms an email address with the token sent by
// RequestEmailVerification.
func (c Client) VerifyEmail(ctx context.Context, input VerifyEmailInput) error {
	return c.send(ctx, http.MethodPost, "/v1/auth/verify-email", input)
}

// PasswordChangeInput is the input of RequestPasswordChange.
type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,password,nefield=CurrentPassword"`
}

// RequestPasswordChange changes the caller's password.
func (c Client) RequestPasswordChange(ctx context.Context, input PasswordChangeInput) error {
	return c.send(ctx, http.MethodPost, "/v1/auth/password/change", input)
}

// EmailChangeInput is the input of RequestEmailChange.
type EmailChangeInput struct {
	NewEmail string `json:"new_email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RequestEmailChange asks the backend to move the caller to a new email
// address. The change completes once the new address is verified.
func (c Client) RequestEmailChange(ctx context.Context, input EmailChangeInput) error {
	return c.send(ctx, http.MethodPost, "/v1/auth/email/change", input)
}

// ForgotPasswordInput is the input of ForgotPassword.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword asks the backend to send a password reset email.
func (c Client) ForgotPassword(ctx context.Context, input ForgotPasswordInput) error {
	return c.send(ctx, http.MethodPost, "/v1/auth/password/forgot", input)
}

// ResetPasswordInput is the input of ResetPassword.
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,password"`
}

// ResetPassword sets a new password with the token sent by ForgotPassword.
func (c Client) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	return c.send(ctx, http.MethodPost, "/v1/auth/password/reset", input)
}

// establish sends a credential-establishing request and captures the bearer
// token of its response.
func (c Client) establish(
	ctx context.Context,
	method, path string,
	input interface{},
) (*Identity, error) {
	if err := c.validate(input); err != nil {
		return nil, err
	}

	identity := new(Identity)
	header, err := c.do(ctx, call{method: method, path: path, in: input, out: identity})
	if err != nil {
		return nil, err
	}

	c.capture(ctx, header)
	return identity, nil
}

// send validates input and sends it to the backend, discarding the response
// body.
func (c Client) send(ctx context.Context, method, path string, input interface{}) error {
	if err := c.validate(input); err != nil {
		return err
	}

	_, err := c.do(ctx, call{method: method, path: path, in: input})
	return err
}
