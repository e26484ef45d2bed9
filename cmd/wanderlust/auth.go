package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}

	user := a.session.CurrentUser()
	fmt.Printf("logged in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(api.RoleStandard), "account role: standard or operator")
	signupCode := fs.String("signup-code", "", "operator signup code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.session.Register(ctx, api.RegisterParams{
		Email:      *email,
		Password:   *password,
		Name:       *name,
		Role:       api.Role(*role),
		SignupCode: *signupCode,
	})
	if err != nil {
		return err
	}

	user := a.session.CurrentUser()
	fmt.Printf("welcome, %s! you are registered as %s\n", user.Name, user.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Println("logged out")
	return nil
}

func (a *app) cmdWhoami() error {
	snap := a.session.Snapshot()
	if !snap.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	u := snap.User
	fmt.Printf("%s <%s>\nrole: %s\n", u.Name, u.Email, u.Role)
	if u.ProfilePhoto != "" {
		fmt.Printf("photo: %s\n", u.ProfilePhoto)
	}
	if len(u.Favorites) > 0 {
		fmt.Printf("favorites: %d hotels\n", len(u.Favorites))
	}
	return nil
}
