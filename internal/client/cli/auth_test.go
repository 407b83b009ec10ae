package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/leadsession/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInputs(t *testing.T, answers []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestLogin_Success(t *testing.T) {
	a, fs, out := newTestApp(t, "")
	pw := []byte("secret")
	stubInputs(t, []string{"alice@example.org"}, pw)

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "alice@example.org", fs.loginCreds.Identifier)
	assert.Equal(t, "secret", fs.loginCreds.Secret)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, pw, "password must be wiped")
	assert.Contains(t, out.String(), "Login successful")
	assert.True(t, a.isLoggedIn())
}

func TestLogin_Failure(t *testing.T) {
	a, fs, out := newTestApp(t, "")
	fs.loginErr = errors.New("Invalid credentials")
	stubInputs(t, []string{"alice@example.org"}, []byte("bad"))

	require.Error(t, a.Login(context.Background()))
	assert.NotContains(t, out.String(), "Login successful")
	assert.False(t, a.isLoggedIn())
}

func TestLogin_PasswordReadError(t *testing.T) {
	a, fs, _ := newTestApp(t, "")
	stubInputs(t, []string{"alice@example.org"}, nil)
	getPassword = func(io.Writer) ([]byte, error) { return nil, errors.New("no tty") }

	require.Error(t, a.Login(context.Background()))
	assert.Empty(t, fs.loginCreds.Identifier)
}

func TestRegister(t *testing.T) {
	a, fs, _ := newTestApp(t, "")
	stubInputs(t, []string{"Alice", "alice@example.org"}, []byte("secret"))

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, map[string]string{"name": "Alice", "email": "alice@example.org", "password": "secret"}, fs.registered)
}

func TestLogout(t *testing.T) {
	a, fs, out := newTestApp(t, "")
	fs.snap = session.Snapshot{State: session.StateAuthenticated}

	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Logout(context.Background()))

	assert.Equal(t, 2, fs.loggedOut)
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Logged out")
}

func TestForgotAndReset(t *testing.T) {
	a, fs, out := newTestApp(t, "")
	stubInputs(t, []string{"ann@x.io", "ann@x.io", "123456"}, []byte("new-pw"))

	require.NoError(t, a.ForgotPassword(context.Background()))
	assert.Equal(t, "ann@x.io", fs.body)

	require.NoError(t, a.ResetPassword(context.Background()))
	assert.Equal(t, []string{"ann@x.io", "123456", "new-pw"}, fs.body)
	assert.Contains(t, out.String(), "Password updated")
}

func TestWhoAmI(t *testing.T) {
	a, _, out := newTestApp(t, "")
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "state: unauthenticated\n", out.String())

	stubInputs(t, []string{"a@b.com"}, []byte("pw"))
	require.NoError(t, a.Login(context.Background()))
	out.Reset()

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "user: Ann")
}
