package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tjper/vitalis/internal/apimock"
	"github.com/tjper/vitalis/internal/client"
	"github.com/tjper/vitalis/internal/credential"
	"github.com/tjper/vitalis/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const password = "1ValidPassword!"

func TestLogin(t *testing.T) {
	t.Parallel()

	type expected struct {
		token  bool
		status int
		detail string
	}
	tests := map[string]struct {
		input   client.LoginInput
		options []apimock.Option
		exp     expected
	}{
		"valid credentials": {
			input: client.LoginInput{Email: "premium@vitalis.io", Password: password},
			exp:   expected{token: true},
		},
		"valid credentials, no access token header": {
			input:   client.LoginInput{Email: "premium@vitalis.io", Password: password},
			options: []apimock.Option{apimock.WithoutAccessToken()},
			exp:     expected{token: false},
		},
		"wrong password": {
			input: client.LoginInput{Email: "premium@vitalis.io", Password: "1WrongPassword!"},
			exp: expected{
				status: http.StatusUnauthorized,
				detail: "Invalid email or password.",
			},
		},
		"unknown email": {
			input: client.LoginInput{Email: "unknown@vitalis.io", Password: password},
			exp: expected{
				status: http.StatusUnauthorized,
				detail: "Invalid email or password.",
			},
		},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			suite := setup(t, test.options...)

			identity, err := suite.client.Login(ctx, test.input)
			if test.exp.status != 0 {
				apiErr := client.AsAPIError(err)
				require.NotNil(t, apiErr)
				assert.Equal(t, test.exp.status, apiErr.Status)
				assert.Equal(t, test.exp.detail, apiErr.Error())

				_, ok := suite.slot.ReadToken(ctx)
				assert.False(t, ok)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, "premium", identity.Status)
			assert.Equal(t, "premium@vitalis.io", identity.Email)

			tok, ok := suite.slot.ReadToken(ctx)
			assert.Equal(t, test.exp.token, ok)
			if test.exp.token {
				headers, err := credential.BuildAuthHeaders(ctx, suite.slot, map[string]string{})
				require.Nil(t, err)
				assert.Equal(t, map[string]string{"Authorization": credential.Bearer(tok)}, headers)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	suite := setup(t)

	_, err := suite.client.Login(context.Background(), client.LoginInput{Email: "not-an-email"})

	valErr := client.AsValidationError(err)
	require.NotNil(t, valErr)
	assert.Len(t, valErr.Fields, 2)
	assert.Nil(t, client.AsAPIError(err))
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suite := setup(t)

	t.Run("register", func(t *testing.T) {
		identity, err := suite.client.Register(ctx, client.RegisterInput{
			Name:     "Ada",
			Email:    "ada@vitalis.io",
			Password: password,
		})
		require.Nil(t, err)
		assert.Equal(t, "user", identity.Status)
		assert.False(t, identity.IsEmailVerified)

		_, ok := suite.slot.ReadToken(ctx)
		assert.True(t, ok)
	})

	t.Run("register taken email", func(t *testing.T) {
		_, err := suite.client.Register(ctx, client.RegisterInput{
			Name:     "Ada",
			Email:    "ada@vitalis.io",
			Password: password,
		})
		apiErr := client.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
		assert.Equal(t, "Email already registered.", apiErr.Error())
	})

	t.Run("register weak password", func(t *testing.T) {
		_, err := suite.client.Register(ctx, client.RegisterInput{
			Name:     "Grace",
			Email:    "grace@vitalis.io",
			Password: "password",
		})
		valErr := client.AsValidationError(err)
		require.NotNil(t, valErr)
		assert.Equal(t, []string{`"Password" failed "password" validator`}, valErr.Fields)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suite := setup(t)

	t.Run("me unauthenticated", func(t *testing.T) {
		_, err := suite.client.Me(ctx)
		apiErr := client.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.True(t, apiErr.IsUnauthorized())
	})

	t.Run("me after login", func(t *testing.T) {
		_, err := suite.client.Login(ctx, client.LoginInput{Email: "moderator@vitalis.io", Password: password})
		require.Nil(t, err)

		identity, err := suite.client.Me(ctx)
		require.Nil(t, err)
		assert.Equal(t, "moderator", identity.Role)
		assert.NotEmpty(t, identity.ID)
		assert.NotEmpty(t, identity.CreatedAt)
	})

	t.Run("me malformed body", func(t *testing.T) {
		suite.api.SetMeFailure(http.StatusOK, []byte("{not json"))
		defer suite.api.SetMeFailure(0, nil)

		_, err := suite.client.Me(ctx)
		assert.ErrorIs(t, err, client.ErrMalformedResponse)
	})

	t.Run("me empty body", func(t *testing.T) {
		suite.api.SetMeFailure(http.StatusOK, nil)
		defer suite.api.SetMeFailure(0, nil)

		_, err := suite.client.Me(ctx)
		assert.ErrorIs(t, err, client.ErrMalformedResponse)
	})
}

func TestBearerFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// The backend hands out no cookies, so only the bearer token can carry
	// the credential.
	suite := setup(t, apimock.WithoutCookies())

	_, err := suite.client.Login(ctx, client.LoginInput{Email: "premium@vitalis.io", Password: password})
	require.Nil(t, err)

	identity, err := suite.client.Me(ctx)
	require.Nil(t, err)
	assert.Equal(t, "premium@vitalis.io", identity.Email)

	err = suite.client.Logout(ctx)
	require.Nil(t, err)

	_, ok := suite.slot.ReadToken(ctx)
	assert.False(t, ok)

	headers, err := credential.BuildAuthHeaders(ctx, suite.slot, map[string]string{})
	require.Nil(t, err)
	assert.Equal(t, map[string]string{}, headers)

	_, err = suite.client.Me(ctx)
	apiErr := client.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCookieOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suite := setup(t, apimock.WithoutAccessToken())

	_, err := suite.client.Login(ctx, client.LoginInput{Email: "premium@vitalis.io", Password: password})
	require.Nil(t, err)

	_, ok := suite.slot.ReadToken(ctx)
	assert.False(t, ok)

	identity, err := suite.client.Me(ctx)
	require.Nil(t, err)
	assert.Equal(t, "premium@vitalis.io", identity.Email)
}

func TestLogoutUnreachable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	slot := token.NewSlot(zap.NewNop(), token.NewMemory())
	slot.StoreToken(ctx, "abc123")

	c, err := client.New(zap.NewNop(), url, slot)
	require.Nil(t, err)

	err = c.Logout(ctx)
	assert.Error(t, err)

	_, ok := slot.ReadToken(ctx)
	assert.False(t, ok)
}

func TestProfileAndAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suite := setup(t, apimock.WithoutCookies())

	_, err := suite.client.Login(ctx, client.LoginInput{Email: "premium@vitalis.io", Password: password})
	require.Nil(t, err)

	before, _ := suite.slot.ReadToken(ctx)

	t.Run("update profile", func(t *testing.T) {
		bio := "Cold plunges and creatine."
		dob := "1990-04-21"

		identity, err := suite.client.UpdateProfile(ctx, client.UpdateProfileInput{
			Bio:         &bio,
			DateOfBirth: &dob,
		})
		require.Nil(t, err)
		assert.Equal(t, bio, identity.Bio)
		assert.Equal(t, dob, identity.DateOfBirth)

		after, ok := suite.slot.ReadToken(ctx)
		assert.True(t, ok)
		assert.NotEqual(t, before, after)
	})

	t.Run("update profile invalid avatar", func(t *testing.T) {
		avatar := "not a url"
		_, err := suite.client.UpdateProfile(ctx, client.UpdateProfileInput{AvatarURL: &avatar})
		assert.NotNil(t, client.AsValidationError(err))
	})

	t.Run("rotated token still authenticates", func(t *testing.T) {
		identity, err := suite.client.Me(ctx)
		require.Nil(t, err)
		assert.Equal(t, "Cold plunges and creatine.", identity.Bio)
	})

	t.Run("change password wrong current", func(t *testing.T) {
		err := suite.client.RequestPasswordChange(ctx, client.PasswordChangeInput{
			CurrentPassword: "1WrongPassword!",
			NewPassword:     "2ValidPassword!",
		})
		apiErr := client.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, "Current password is incorrect.", apiErr.Error())
	})

	t.Run("change password", func(t *testing.T) {
		err := suite.client.RequestPasswordChange(ctx, client.PasswordChangeInput{
			CurrentPassword: password,
			NewPassword:     "2ValidPassword!",
		})
		assert.Nil(t, err)
	})

	t.Run("change email", func(t *testing.T) {
		err := suite.client.RequestEmailChange(ctx, client.EmailChangeInput{
			NewEmail: "premium2@vitalis.io",
			Password: "2ValidPassword!",
		})
		require.Nil(t, err)

		verification, ok := suite.api.VerificationToken("premium2@vitalis.io")
		require.True(t, ok)

		err = suite.client.VerifyEmail(ctx, client.VerifyEmailInput{Token: verification})
		require.Nil(t, err)

		identity, err := suite.client.Me(ctx)
		require.Nil(t, err)
		assert.Equal(t, "premium2@vitalis.io", identity.Email)
		assert.True(t, identity.IsEmailVerified)
	})

	t.Run("request verification of verified email", func(t *testing.T) {
		err := suite.client.RequestEmailVerification(ctx)
		apiErr := client.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.Status)
	})

	t.Run("delete account", func(t *testing.T) {
		err := suite.client.DeleteAccount(ctx)
		require.Nil(t, err)

		_, ok := suite.slot.ReadToken(ctx)
		assert.False(t, ok)

		_, ok = suite.api.User("premium2@vitalis.io")
		assert.False(t, ok)
	})
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	suite := setup(t)

	t.Run("forgot password unknown email", func(t *testing.T) {
		err := suite.client.ForgotPassword(ctx, client.ForgotPasswordInput{Email: "unknown@vitalis.io"})
		assert.Nil(t, err)
	})

	t.Run("reset with invalid token", func(t *testing.T) {
		err := suite.client.ResetPassword(ctx, client.ResetPasswordInput{
			Token:    "invalid",
			Password: "2ValidPassword!",
		})
		apiErr := client.AsAPIError(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, "Invalid or expired reset token.", apiErr.Error())
	})

	t.Run("reset password", func(t *testing.T) {
		err := suite.client.ForgotPassword(ctx, client.ForgotPasswordInput{Email: "user@vitalis.io"})
		require.Nil(t, err)

		reset, ok := suite.api.ResetToken("user@vitalis.io")
		require.True(t, ok)

		err = suite.client.ResetPassword(ctx, client.ResetPasswordInput{
			Token:    reset,
			Password: "2ValidPassword!",
		})
		require.Nil(t, err)

		_, err = suite.client.Login(ctx, client.LoginInput{Email: "user@vitalis.io", Password: "2ValidPassword!"})
		assert.Nil(t, err)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		baseURL string
		exp     string
		err     bool
	}{
		"default":        {baseURL: "", exp: client.DefaultBaseURL},
		"trailing slash": {baseURL: "https://api.vitalis.io/", exp: "https://api.vitalis.io"},
		"relative":       {baseURL: "api.vitalis.io", err: true},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c, err := client.New(zap.NewNop(), test.baseURL, nil)
			if test.err {
				assert.Error(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, test.exp, c.BaseURL())
		})
	}
}

// --- suite ---

type suite struct {
	api    *apimock.Server
	client *client.Client
	slot   *token.Slot
}

func setup(t *testing.T, options ...apimock.Option) *suite {
	t.Helper()

	api := apimock.New(zap.NewNop(), options...)
	seed := []apimock.User{
		{Name: "Premium", Email: "premium@vitalis.io", Status: "premium"},
		{Name: "Moderator", Email: "moderator@vitalis.io", Role: "moderator"},
		{Name: "User", Email: "user@vitalis.io"},
	}
	for _, user := range seed {
		_, err := api.Seed(user, password)
		require.Nil(t, err)
	}

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	slot := token.NewSlot(zap.NewNop(), token.NewMemory())

	c, err := client.New(zap.NewNop(), srv.URL, slot)
	require.Nil(t, err)

	return &suite{api: api, client: c, slot: slot}
}
