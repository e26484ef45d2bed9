// Command wanderlust is the terminal front end for the Wanderlust
// hotel-booking service: browse and manage hotels, exchange messages with
// operators, and maintain a logged-in session that survives between runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/config"
	"github.com/wanderlust-travel/wanderlust-go/pkg/credentials"
	"github.com/wanderlust-travel/wanderlust-go/pkg/guard"
	"github.com/wanderlust-travel/wanderlust-go/pkg/logger"
	"github.com/wanderlust-travel/wanderlust-go/pkg/session"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		printUsage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	log := logger.NewFromConfig(logCfg)

	// serve runs the dev stub and needs no client stack.
	if args[0] == "serve" {
		return cmdServe(args[1:], log)
	}

	app, err := newApp(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	ctx := context.Background()
	app.session.Init(ctx)

	var cmdErr error
	switch args[0] {
	case "login":
		cmdErr = app.cmdLogin(ctx, args[1:])
	case "register":
		cmdErr = app.cmdRegister(ctx, args[1:])
	case "logout":
		cmdErr = app.cmdLogout(ctx)
	case "whoami":
		cmdErr = app.cmdWhoami()
	case "hotels":
		cmdErr = app.cmdHotels(ctx, args[1:])
	case "messages":
		cmdErr = app.cmdMessages(ctx, args[1:])
	case "profile":
		cmdErr = app.cmdProfile(ctx, args[1:])
	case "upload-photo":
		cmdErr = app.cmdUploadPhoto(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[0])
		printUsage()
		return 2
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", friendlyMessage(cmdErr))
		return 1
	}
	return 0
}

// app is the assembled client stack every command works through.
type app struct {
	client  *api.Client
	session *session.Manager
	store   credentials.Store
	guard   guard.Guard
	log     *slog.Logger
}

func newApp(log *slog.Logger) (*app, error) {
	var apiCfg api.Config
	if err := config.Load(&apiCfg); err != nil {
		return nil, err
	}
	applyProfileOverrides(&apiCfg, log)

	path, err := credentials.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("resolve credentials path: %w", err)
	}
	store := credentials.NewFileStore(path)

	a := &app{store: store, guard: guard.Default(), log: log}

	client, err := api.New(apiCfg, store,
		api.WithLogger(log),
		api.WithOnUnauthorized(func() {
			a.session.Invalidate()
			fmt.Fprintln(os.Stderr, "your session is no longer valid; run `wanderlust login` to sign in again")
		}),
	)
	if err != nil {
		return nil, err
	}

	a.client = client
	a.session = session.New(client, store, session.WithLogger(log))
	return a, nil
}

// requireAccess consults the access guard before a protected command runs.
// A login redirect becomes an instruction to sign in; the silent role
// mismatch redirect becomes the home view, same as the web client.
func (a *app) requireAccess(ctx context.Context, roles []api.Role, requestedPath string) (bool, error) {
	result := a.guard.Evaluate(a.session.Snapshot(), roles, requestedPath)
	switch result.Decision {
	case guard.DecisionAllow:
		return true, nil
	case guard.DecisionLoginRedirect:
		return false, fmt.Errorf("you must be logged in; run `wanderlust login` and retry %s", result.ReturnTo)
	case guard.DecisionHomeRedirect:
		return false, a.renderHome(ctx)
	default:
		return false, fmt.Errorf("session is still initializing, try again")
	}
}

// renderHome shows the default destination, the public hotel listing.
func (a *app) renderHome(ctx context.Context) error {
	page, err := a.client.ListHotels(ctx, api.HotelFilter{})
	if err != nil {
		return err
	}
	printHotelPage(page)
	return nil
}

// friendlyMessage reduces an error chain to the one line worth showing.
func friendlyMessage(err error) string {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return ve.Error()
	}
	return api.ErrorMessage(err, err.Error())
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: wanderlust <command> [flags]

Session:
  login       --email --password
  register    --email --password --name [--role standard|operator] [--signup-code]
  logout
  whoami

Hotels:
  hotels list     [--search] [--location] [--min-price] [--max-price] [--page] [--limit]
  hotels get      <id>
  hotels create   --name --location --price [...]        (operator)
  hotels update   <id> [flags]                           (operator)
  hotels delete   <id>                                   (operator)
  hotels favorite <id>

Messages:
  messages list   [--type] [--page] [--limit]
  messages get    <id>
  messages send   --subject --content (--hotel | --parent) [--type]
  messages delete <id>

Profile:
  profile show
  profile update  --name
  upload-photo    <file>

Development:
  serve           [--addr :5000] [--signup-code] [--seed]

Environment:
  WANDERLUST_API_URL     remote service base URL (default http://localhost:5000/api)
  WANDERLUST_LOG_LEVEL   debug|info|warn|error
`)
}
