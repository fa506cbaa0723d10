package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Strob0t/CRMForge/internal/adapter/postgres"
	"github.com/Strob0t/CRMForge/internal/config"
	"github.com/Strob0t/CRMForge/internal/domain/access"
	"github.com/Strob0t/CRMForge/internal/domain/user"
	"github.com/Strob0t/CRMForge/internal/service"
)

// runAdmin dispatches admin subcommands (create-user, list-users).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-user":
		return runAdminCreateUser(args[1:])
	case "list-users":
		return runAdminListUsers(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: crmforge admin <command> [options]
       crmforge migrate <up|down [steps]|version>
       crmforge events [--subject crm.deal.>]

Commands:
  create-user      Create a new user
  list-users       List all users
  help             Show this help message

Examples:
  crmforge admin create-user --email jane@example.com --name "Jane Doe"
  crmforge admin list-users
  crmforge migrate down 1
`)
}

func loadAdminDeps() (*service.AuthService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage.Driver != config.DriverPostgres {
		return nil, nil, errors.New("admin commands require the postgres storage driver")
	}

	pool, err := postgres.NewPool(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool, access.OwnerPolicy{})
	return service.NewAuthService(store, &cfg.Auth), pool.Close, nil
}

func runAdminCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	name := fs.String("name", "", "user display name (required)")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return errors.New("--email is required")
	}
	if *name == "" {
		return errors.New("--name is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if pass != confirm {
			return errors.New("passwords do not match")
		}
	}

	authSvc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := authSvc.Register(context.Background(), &user.CreateRequest{
		Email:    *email,
		Name:     *name,
		Password: pass,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(os.Stderr, "User created: %s (id=%s)\n", u.Email, u.ID)
	return nil
}

func runAdminListUsers(args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	authSvc, cleanup, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := authSvc.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tENABLED\tCREATED")
	for i := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			users[i].ID, users[i].Email, users[i].Name, users[i].Enabled, users[i].CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

// runMigrate applies, rolls back or reports schema migrations.
func runMigrate(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()

	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up":
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Migrations applied.")
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		if err := postgres.RollbackMigrations(ctx, cfg.Postgres.DSN, steps); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rolled back %d migration(s).\n", steps)
	case "version":
		v, err := postgres.MigrationVersion(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		fmt.Println(v)
	default:
		printAdminHelp()
		return fmt.Errorf("unknown migrate command: %s", cmd)
	}
	return nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
