package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/ele/internal/client/identity"
	"github.com/dmitrijs2005/ele/internal/client/models"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/validation"
)

// getSimpleText, getPassword and getDate are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getDate       = GetDate
)

// report prints err to the user: field by field for validation errors, as
// one line otherwise.
func (a *App) report(ctx context.Context, action string, err error) {
	var ve *validation.Error
	if errors.As(err, &ve) {
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  %s: %s\n", k, ve.Fields[k])
		}
		fmt.Fprintln(a.out, validation.MsgFixErrors)
		return
	}

	a.logger.Warn(ctx, action+" failed", "error", err)
	fmt.Fprintf(a.out, "%s failed: %s\n", action, err)
}

func (a *App) signedIn(ctx context.Context, ident models.UserIdentity) {
	a.identity = ident
	name := ident.Email
	if name == "" {
		name = ident.UID
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", name)
	_ = a.Profile(ctx)
}

func (a *App) askPassword(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register collects the sign-up form, creates the account and signs in.
func (a *App) Register(ctx context.Context) error {
	var form validation.Registration
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Gender (male/female)", &form.Gender},
		{"Email", &form.Email},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	if form.Password, err = a.askPassword("Password"); err != nil {
		return err
	}
	if form.ConfirmPassword, err = a.askPassword("Confirm password"); err != nil {
		return err
	}

	if form.BirthDate, err = getDate(a.reader, "Birth date", a.out); err != nil {
		err = &validation.Error{Fields: validation.FormErrors{validation.FieldBirthDate: err.Error()}}
		a.report(ctx, "register", err)
		return err
	}

	ident, err := a.authService.Register(ctx, form)
	if err != nil {
		a.report(ctx, "register", err)
		return err
	}

	fmt.Fprintln(a.out, "Account created")
	a.signedIn(ctx, ident)
	return nil
}

// Login signs in with email and password.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.askPassword("Enter password")
	if err != nil {
		return err
	}

	ident, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.report(ctx, "login", err)
		return err
	}

	a.signedIn(ctx, ident)
	return nil
}

// FaceID signs in with the credentials saved by the last password login,
// after the device owner confirms.
func (a *App) FaceID(ctx context.Context) error {
	ident, err := a.authService.BiometricLogin(ctx)
	if err != nil {
		a.report(ctx, "biometric login", err)
		return err
	}
	a.signedIn(ctx, ident)
	return nil
}

// Google signs in with an ID token obtained from Google sign-in.
func (a *App) Google(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste the Google ID token", a.out)
	if err != nil {
		return err
	}
	return a.federated(ctx, identity.Google{IDToken: token})
}

// Apple signs in with an Apple identity token. Name and email are only
// sent by Apple on the first authorization and may be left empty.
func (a *App) Apple(ctx context.Context) error {
	var cred identity.Apple
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Paste the Apple identity token", &cred.IdentityToken},
		{"Given name (optional)", &cred.GivenName},
		{"Family name (optional)", &cred.FamilyName},
		{"Email (optional)", &cred.Email},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}
	return a.federated(ctx, cred)
}

func (a *App) federated(ctx context.Context, cred identity.Credential) error {
	ident, err := a.authService.FederatedLogin(ctx, cred)
	if err != nil {
		a.report(ctx, cred.Provider()+" login", err)
		return err
	}
	a.signedIn(ctx, ident)
	return nil
}

// Reset asks the server to mail a password reset link.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ResetPassword(ctx, email); err != nil {
		a.report(ctx, "password reset", err)
		return err
	}
	fmt.Fprintf(a.out, "If an account exists for %s, a reset link has been sent\n", email)
	return nil
}

// ResetConfirm sets a new password using the token from the reset link.
func (a *App) ResetConfirm(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Reset token", a.out)
	if err != nil {
		return err
	}
	password, err := a.askPassword("New password")
	if err != nil {
		return err
	}
	if err := a.authService.ConfirmPasswordReset(ctx, token, password); err != nil {
		a.report(ctx, "password reset", err)
		return err
	}
	fmt.Fprintln(a.out, "Password changed, sign in with the new password")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(ctx, "logout", err)
		return err
	}
	a.signedOut()
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// Forget signs out and removes the saved credentials.
func (a *App) Forget(ctx context.Context) error {
	err := a.authService.Forget(ctx)
	a.signedOut()
	if err != nil {
		a.report(ctx, "forget", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out, saved credentials removed")
	return nil
}

func (a *App) signedOut() {
	a.profileService.Close()
	a.identity = models.UserIdentity{}
}
