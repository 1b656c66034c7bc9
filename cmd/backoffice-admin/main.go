// Command backoffice-admin runs one-off maintenance tasks.
//
//	backoffice-admin migrate
//	backoffice-admin create-user -username admin -email admin@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/cli"
	"backoffice/internal/config"
	"backoffice/internal/log"
	"backoffice/internal/services"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: backoffice-admin <migrate|create-user> [flags]")
	os.Exit(2)
}

func main() {
	cli.LoadEnvFile()
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	logger := cli.SetupLogger(cfg, log.ComponentApp)
	ctx, stop := cli.SignalContext()
	defer stop()

	var err error
	switch os.Args[1] {
	case "migrate":
		err = migrate(ctx, cfg, logger)
	case "create-user":
		err = createUser(ctx, cfg, logger, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		cli.Fatal(logger, os.Args[1]+" failed", err)
	}
}

// migrate opens the database, which applies pending migrations.
func migrate(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	db, err := cli.OpenDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Migrations applied", "db_driver", cfg.DBDriver)
	return nil
}

func createUser(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	email := fs.String("email", "", "email address")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	password := fs.String("password", "", "password (default $ADMIN_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if strings.TrimSpace(*username) == "" || *password == "" {
		fs.Usage()
		return fmt.Errorf("username and password are required")
	}

	db, err := cli.OpenDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// No tokens are issued here, so the signing secret is irrelevant.
	svc := services.NewAuthService(db, auth.NewTokens("unused-admin-secret", cfg.JWTTTL), logger)
	u, err := svc.CreateUser(ctx, services.SignupInput{
		Username:  *username,
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
		Password:  *password,
	})
	if err != nil {
		return err
	}
	logger.Info("User created", log.FieldUserID, u.ID, "username", u.Username)
	return nil
}
