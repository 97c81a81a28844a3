package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/oculog/internal/common"
)

const minPasswordLength = 8

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var (
	errPasswordMismatch = errors.New("Passwords do not match")
	errPasswordTooShort = fmt.Errorf("Password must be at least %d characters", minPasswordLength)
)

func (a *App) readCredentials(confirm bool) (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return "", nil, err
	}
	if !confirm {
		return email, password, nil
	}

	again, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		common.WipeByteArray(password)
		return "", nil, err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(password, again) {
		common.WipeByteArray(password)
		return "", nil, errPasswordMismatch
	}
	if len(password) < minPasswordLength {
		common.WipeByteArray(password)
		return "", nil, errPasswordTooShort
	}
	return email, password, nil
}

// Signup asks for an email and a confirmed password and creates the account.
// On success the session is authenticated and the first page is loaded.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.readCredentials(true)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Signup(ctx, email, string(password)); err != nil {
		return err
	}
	return a.afterLogin(ctx)
}

// Login asks for credentials and authenticates. Failures are returned as
// *services.AuthError, which prints as the user message.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials(false)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		return err
	}
	return a.afterLogin(ctx)
}

func (a *App) afterLogin(ctx context.Context) error {
	st := a.session.State()
	if !st.IsAuthenticated {
		if st.Error != "" {
			return errors.New(st.Error)
		}
		return errors.New("login did not complete")
	}
	a.printf("Logged in as %s\n", st.CurrentUser.Login)
	a.loadData(ctx)
	return nil
}

// Logout clears both tokens and the loaded logs.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.data.Clear()
	a.println("Logged out")
	return nil
}

// Status prints the signed-in user, the token expiry and the API status.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	if st.CurrentUser != nil {
		a.printf("User:    %s\n", st.CurrentUser.Login)
	}
	if st.AccessTokenExpiresAt != nil {
		a.printf("Token:   expires %s\n", st.AccessTokenExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	d := a.data.State()
	a.printf("API:     %s\n", d.APIStatus)
	a.printf("Data:    %s\n", d.Loading)

	loc := a.data.Tracker().State()
	switch {
	case loc.IsRequesting:
		a.println("Location: locating...")
	case loc.ErrorMessage != "":
		a.printf("Location: %s\n", loc.ErrorMessage)
	case loc.City != "":
		a.printf("Location: %s\n", loc.City)
	}
	return nil
}
