package cli

import (
	"context"
	"fmt"
	"os"

	"profilecli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. On success the session
// is persisted and the profile redirect is scheduled; on failure the
// server's own error text is shown and nothing changes.
//
// The password byte slice is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if sess.User != nil && sess.User.Email != "" {
		email = sess.User.Email
	}
	a.setEmail(email)
	fmt.Println("Login successful! Redirecting...")
	return nil
}

// Logout clears the persisted session; the navigator switches the prompt
// back to the login route.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	fmt.Println("Logged out")
	return nil
}
