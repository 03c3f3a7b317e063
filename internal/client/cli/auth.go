package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/harshal4412/ephemeral/internal/client/remote"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and attempts to create
// a new account via the AuthService.
//
// On success it prints "Account created, you can log in now." and returns
// nil. Any I/O or service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.auth.SignUp(ctx, email, password); err != nil {
		if errors.Is(err, remote.ErrDuplicateAccount) {
			printlnFn("An account with this email already exists.")
		} else {
			printlnFn("Registration failed:", err.Error())
		}
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate. On
// success the journal reloads in the background; the prompt shows the
// signed-in email once it has.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	ident, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, remote.ErrInvalidCredentials) {
			printlnFn("Wrong email or password.")
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome back, %s!", ident.Email))
	return nil
}

// Logout ends the session; the persisted session and everything cached
// locally is wiped by the services reacting to the transition.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}
