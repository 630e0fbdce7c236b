package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aleksmelnik/mediavault/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// registrationInput is validated locally before any request is issued:
// names required, well-formed email, password of at least 8 characters.
type registrationInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
}

// Register prompts for profile fields and credentials, validates them
// locally, and creates an account. A successful registration signs the user
// in with the returned token.
func (a *App) Register(ctx context.Context) error {
	input := registrationInput{}
	var err error

	if input.FirstName, err = getSimpleText(a.reader, "First name", os.Stdout); err != nil {
		return err
	}
	if input.LastName, err = getSimpleText(a.reader, "Last name", os.Stdout); err != nil {
		return err
	}
	if input.Email, err = getSimpleText(a.reader, "Email", os.Stdout); err != nil {
		return err
	}
	if input.Password, err = getPassword("Enter password", os.Stdout); err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.validate.Struct(input); err != nil {
		printlnFn("Invalid input: names are required, email must be valid, password must be at least 8 characters.")
		return err
	}
	if input.Password != confirm {
		printlnFn("Passwords do not match.")
		return errors.New("password confirmation mismatch")
	}

	resp, err := a.api.Register(ctx, api.RegisterRequest{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		printAPIError(err)
		return err
	}

	return a.startSession(ctx, resp)
}

// Login prompts for credentials and authenticates against the server.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		printAPIError(err)
		return err
	}

	return a.startSession(ctx, resp)
}

func (a *App) startSession(ctx context.Context, resp *api.AuthResponse) error {
	if err := a.session.Authenticate(ctx, resp.AccessToken, &resp.User); err != nil {
		return err
	}
	a.nav.reset()
	printlnFn(fmt.Sprintf("Welcome, %s!", resp.User.FullName()))

	if err := a.controller.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "initial media fetch failed", "error", err)
	}
	if err := a.tracker.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "initial storage fetch failed", "error", err)
	}
	return nil
}

// Logout runs the single-fire logout sequence.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

// RestoreSession loads a persisted session at startup and refreshes the
// profile via /api/auth/me. A 401 on the probe clears the stale session
// through the regular unauthorized path.
func (a *App) RestoreSession(ctx context.Context) {
	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
		return
	}
	if !a.session.IsAuthenticated(ctx) {
		return
	}

	user, err := a.api.Me(ctx)
	if err != nil {
		a.log.Warn(ctx, "session probe failed", "error", err)
		return
	}
	if err := a.session.Authenticate(ctx, a.session.Token(), user); err != nil {
		a.log.Warn(ctx, "session refresh failed", "error", err)
		return
	}
	a.nav.reset()
	printlnFn(fmt.Sprintf("Welcome back, %s!", user.FullName()))
}

// printAPIError shows the taxonomy-appropriate message for a failed call.
func printAPIError(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		printlnFn(apiErr.UserMessage())
		return
	}
	printlnFn("Error: " + err.Error())
}
