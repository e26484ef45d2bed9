package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("profile needs a subcommand: show, update")
	}

	ok, err := a.requireAccess(ctx, nil, "/profile")
	if !ok {
		return err
	}

	switch args[0] {
	case "show":
		return a.profileShow(ctx)
	case "update":
		return a.profileUpdate(ctx, args[1:])
	default:
		return fmt.Errorf("unknown profile subcommand %q", args[0])
	}
}

// profileShow fetches the authoritative record rather than printing the
// cached copy, so it doubles as a session health check.
func (a *app) profileShow(ctx context.Context) error {
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	fmt.Printf("role:    %s\n", user.Role)
	fmt.Printf("member:  %s\n", user.CreatedAt.Format("2006-01-02"))
	if user.ProfilePhoto != "" {
		fmt.Printf("photo:   %s\n", user.ProfilePhoto)
	}
	fmt.Printf("favorites: %d\n", len(user.Favorites))
	return nil
}

func (a *app) profileUpdate(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("profile update", pflag.ContinueOnError)
	name := fs.String("name", "", "new display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.client.UpdateProfile(ctx, api.UpdateProfileParams{Name: *name})
	if err != nil {
		return err
	}
	if err := a.session.AdoptUser(ctx, user); err != nil {
		return err
	}
	fmt.Printf("profile updated: %s\n", user.Name)
	return nil
}

func (a *app) cmdUploadPhoto(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: upload-photo <file>")
	}

	ok, err := a.requireAccess(ctx, nil, "/profile")
	if !ok {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	result, err := a.client.UploadProfilePhoto(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}

	if user := a.session.CurrentUser(); user != nil {
		user.ProfilePhoto = result.ProfilePhoto
		if err := a.session.AdoptUser(ctx, user); err != nil {
			return err
		}
	}
	fmt.Printf("photo uploaded: %s\n", result.ProfilePhoto)
	return nil
}
