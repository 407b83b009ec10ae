package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/leadsession/internal/client/models"
	"github.com/dmitrijs2005/leadsession/internal/common"
)

// Login prompts for an email and password and signs in. The password is
// wiped before returning. Failures have already been shown by the notifier.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, models.Credentials{Identifier: email, Secret: string(password)}); err != nil {
		a.logger.Debug(ctx, "login failed", "error", err)
		return err
	}

	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Register prompts for a name, email and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.session.Register(ctx, map[string]string{
		"name":     name,
		"email":    email,
		"password": string(password),
	})
	return err
}

// Logout always succeeds locally.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ForgotPassword asks the backend to send a reset code.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if _, err := a.session.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a code has been sent.")
	return nil
}

// ResetPassword sets a new password from an emailed code.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	otp, err := getSimpleText(a.reader, "Code from the email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.session.ResetPassword(ctx, email, otp, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated, you can log in now.")
	return nil
}

// WhoAmI prints the session state and the current user.
func (a *App) WhoAmI(_ context.Context) error {
	snap := a.session.Snapshot()
	if snap.User == nil {
		fmt.Fprintf(a.out, "state: %s\n", snap.State)
		return nil
	}
	fmt.Fprintf(a.out, "state: %s\nuser: %s (%s) id=%s\n", snap.State, snap.User.Name, snap.User.UserType, snap.User.ID)
	if snap.User.GroupID != "" {
		fmt.Fprintf(a.out, "group: %s\n", snap.User.GroupID)
	}
	return nil
}
