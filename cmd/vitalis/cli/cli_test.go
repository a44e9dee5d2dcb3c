package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/tjper/vitalis/internal/apimock"
	"github.com/tjper/vitalis/internal/client"
	"github.com/tjper/vitalis/internal/featureflag"
	"github.com/tjper/vitalis/internal/session"
	"github.com/tjper/vitalis/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const password = "1ValidPassword!"

func TestCommands(t *testing.T) {
	t.Parallel()

	subcommands := map[string]bool{
		"whoami":       false,
		"login":        false,
		"register":     false,
		"logout":       false,
		"profile":      false,
		"verify-email": false,
		"password":     false,
		"email":        false,
		"account":      false,
		"flags":        false,
	}

	for _, cmd := range New(nil).Commands() {
		if _, ok := subcommands[cmd.Name()]; ok {
			subcommands[cmd.Name()] = true
		}
	}

	for name, found := range subcommands {
		assert.True(t, found, "subcommand %s not registered", name)
	}
}

func TestWhoami(t *testing.T) {
	t.Parallel()

	suite := setup(t)

	t.Run("guest", func(t *testing.T) {
		out, _, err := suite.run("whoami")
		require.Nil(t, err)
		assert.Contains(t, out, "status:          guest")
		assert.Contains(t, out, "premium access:  false")
	})

	t.Run("login", func(t *testing.T) {
		out, _, err := suite.run("login", "--email", "premium@vitalis.io", "--password", password)
		require.Nil(t, err)
		assert.Contains(t, out, "Login successful!")
		assert.Contains(t, out, "premium access:  true")
	})

	t.Run("whoami in a later invocation", func(t *testing.T) {
		out, stderr, err := suite.run("whoami")
		require.Nil(t, err)
		assert.Contains(t, out, "status:          premium")
		assert.Contains(t, out, "email:           premium@vitalis.io")
		assert.Empty(t, stderr)
	})

	t.Run("backend failure resolves to guest with a warning", func(t *testing.T) {
		suite.api.SetMeFailure(502, []byte(`{"detail":"upstream"}`))
		defer suite.api.SetMeFailure(0, nil)

		out, stderr, err := suite.run("whoami")
		require.Nil(t, err)
		assert.Contains(t, out, "status:          guest")
		assert.Contains(t, stderr, "warning: session unavailable (authentication)")
	})

	t.Run("logout", func(t *testing.T) {
		out, _, err := suite.run("logout")
		require.Nil(t, err)
		assert.Contains(t, out, "Logged out.")
		assert.Contains(t, out, "status:          guest")

		_, ok := suite.slot.ReadToken(context.Background())
		assert.False(t, ok)
	})
}

func TestLoginErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args []string
		exp  string
	}{
		"wrong password": {
			args: []string{"login", "--email", "premium@vitalis.io", "--password", "1WrongPassword!"},
			exp:  "login failed: Invalid email or password.",
		},
		"missing email": {
			args: []string{"login", "--password", password},
			exp:  "login failed: invalid input",
		},
		"weak password": {
			args: []string{"register", "--name", "Ada", "--email", "ada@vitalis.io", "--password", "weak"},
			exp:  "registration failed: invalid input",
		},
		"taken email": {
			args: []string{"register", "--name", "Ada", "--email", "premium@vitalis.io", "--password", password},
			exp:  "registration failed: Email already registered.",
		},
		"unconfirmed account deletion": {
			args: []string{"account", "delete"},
			exp:  errUnconfirmed.Error(),
		},
		"empty profile update": {
			args: []string{"profile", "update"},
			exp:  "nothing to update",
		},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			suite := setup(t)

			_, _, err := suite.run(test.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.exp)
		})
	}
}

func TestAccountLifecycle(t *testing.T) {
	t.Parallel()

	suite := setup(t)

	_, _, err := suite.run("register", "--name", "Ada", "--email", "ada@vitalis.io", "--password", password)
	require.Nil(t, err)

	t.Run("verify email", func(t *testing.T) {
		verification, ok := suite.api.VerificationToken("ada@vitalis.io")
		require.True(t, ok)

		out, _, err := suite.run("verify-email", "confirm", "--token", verification)
		require.Nil(t, err)
		assert.Contains(t, out, "email verified:  true")
	})

	t.Run("update profile", func(t *testing.T) {
		out, _, err := suite.run("profile", "update", "--name", "Ada L.")
		require.Nil(t, err)
		assert.Contains(t, out, "name:            Ada L.")
	})

	t.Run("change password", func(t *testing.T) {
		out, _, err := suite.run("password", "change", "--current", password, "--new", "2ValidPassword!")
		require.Nil(t, err)
		assert.Contains(t, out, "Password changed.")
	})

	t.Run("change email", func(t *testing.T) {
		out, _, err := suite.run("email", "change", "--new-email", "ada@vitalis.org", "--password", "2ValidPassword!")
		require.Nil(t, err)
		assert.Contains(t, out, "Confirmation sent to ada@vitalis.org.")
	})

	t.Run("delete account", func(t *testing.T) {
		out, _, err := suite.run("account", "delete", "--yes")
		require.Nil(t, err)
		assert.Contains(t, out, "Account deleted.")
		assert.Contains(t, out, "status:          guest")

		_, ok := suite.api.User("ada@vitalis.io")
		assert.False(t, ok)
	})
}

func TestPasswordRecovery(t *testing.T) {
	t.Parallel()

	suite := setup(t)

	out, _, err := suite.run("password", "forgot", "--email", "premium@vitalis.io")
	require.Nil(t, err)
	assert.Contains(t, out, "reset link is on its way")

	reset, ok := suite.api.ResetToken("premium@vitalis.io")
	require.True(t, ok)

	_, _, err = suite.run("password", "reset", "--token", reset, "--password", "2ValidPassword!")
	require.Nil(t, err)

	out, _, err = suite.run("login", "--email", "premium@vitalis.io", "--password", "2ValidPassword!")
	require.Nil(t, err)
	assert.Contains(t, out, "Login successful!")
}

func TestFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value string
		exp   string
	}{
		"enabled":  {value: "Yes", exp: "supplement-reviews  enabled  \"Yes\""},
		"disabled": {value: "", exp: "supplement-reviews  disabled  \"\""},
	}

	for name, test := range tests {
		test := test

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			suite := setup(t)
			suite.flags = []Flag{{
				Name:    "supplement-reviews",
				Value:   test.value,
				Enabled: featureflag.Enabled(test.value),
			}}

			out, _, err := suite.run("flags")
			require.Nil(t, err)
			assert.Contains(t, out, test.exp)
		})
	}
}

// --- helpers ---

type suite struct {
	api   *apimock.Server
	url   string
	slot  *token.Slot
	flags []Flag
}

func setup(t *testing.T) *suite {
	t.Helper()

	api := apimock.New(zap.NewNop())
	_, err := api.Seed(apimock.User{
		Name:   "Premium",
		Email:  "premium@vitalis.io",
		Status: "premium",
	}, password)
	require.Nil(t, err)

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	return &suite{
		api:  api,
		url:  srv.URL,
		slot: token.NewSlot(zap.NewNop(), token.NewMemory()),
	}
}

// build creates a fresh App per invocation sharing only the token slot, as
// separate CLI processes share only the persisted token.
func (s *suite) build(context.Context) (*App, error) {
	c, err := client.New(zap.NewNop(), s.url, s.slot)
	if err != nil {
		return nil, err
	}
	return &App{
		Logger:  zap.NewNop(),
		Client:  c,
		Manager: session.NewManager(zap.NewNop(), c),
		Flags:   s.flags,
	}, nil
}

func (s *suite) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	root := New(s.build)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
