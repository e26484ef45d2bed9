package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/wanderlust-travel/wanderlust-go/pkg/devserver"
	"github.com/wanderlust-travel/wanderlust-go/pkg/httpserver"
)

// cmdServe runs the in-memory stand-in for the remote service, handy for
// trying out the client without a real backend.
func cmdServe(args []string, log *slog.Logger) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	addr := fs.String("addr", ":5000", "listen address")
	signupCode := fs.String("signup-code", "", "operator signup code override")
	seed := fs.Bool("seed", false, "seed demo accounts and hotels")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	opts := []devserver.Option{devserver.WithLogger(log)}
	if *signupCode != "" {
		opts = append(opts, devserver.WithSignupCode(*signupCode))
	}
	srv := devserver.New(opts...)

	if *seed {
		if err := srv.SeedDemoData(); err != nil {
			fmt.Fprintf(os.Stderr, "error: seed demo data: %v\n", err)
			return 1
		}
		log.Info("seeded demo data",
			"operator", "operator@wanderlust.dev",
			"traveler", "traveler@wanderlust.dev",
			"password", "wanderlust")
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", srv))

	log.Info("dev service ready", "base_url", fmt.Sprintf("http://localhost%s/api", *addr))

	err := httpserver.New(
		httpserver.WithAddr(*addr),
		httpserver.WithShutdownTimeout(10*time.Second),
		httpserver.WithLogger(log),
	).Run(context.Background(), mux)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
