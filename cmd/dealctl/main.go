// Command dealctl is the terminal client for the deal-pipeline backend.
// It wires the full client stack: config, durable session storage, the
// session store, the authenticated transport pipeline, the navigation
// guards, and the deal/user services.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/investbank/pipeline-client/internal/core/domain"
	"github.com/investbank/pipeline-client/internal/core/ports"
	"github.com/investbank/pipeline-client/internal/core/service"
	"github.com/investbank/pipeline-client/internal/infrastructure/config"
	"github.com/investbank/pipeline-client/internal/infrastructure/storage"
	"github.com/investbank/pipeline-client/internal/nav"
	"github.com/investbank/pipeline-client/internal/transport"
	"github.com/investbank/pipeline-client/pkg/logger"
)

const usage = `usage: dealctl [flags] <command> [args]

commands:
  login <username> <password>
  logout
  whoami
  deals list
  deals get <id>
  deals create <clientName> <dealType> <sector> <value> <stage> <summary> [assignedTo]
  deals update <id> <clientName> <dealType> <sector> <summary> [assignedTo]
  deals stage <id> <stage>
  deals value <id> <amount>
  deals note <id> <text>
  deals delete <id>
  users list
  users create <username> <email> <password> <role>
  users activate <id>
  users deactivate <id>
`

type app struct {
	sessions *service.SessionService
	deals    *service.DealService
	users    *service.UserService
	guard    *nav.Guard
}

func main() {
	pretty := flag.Bool("pretty", true, "human-friendly log output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: *pretty})

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialise session storage")
	}

	client := transport.NewClient(transport.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
	}, nil, log)

	sessions := service.NewSessionService(client, store, log)
	client.SetSessionInvalidator(sessions)
	client.SetSessionReader(sessions)

	a := &app{
		sessions: sessions,
		deals:    service.NewDealService(client, sessions, log),
		users:    service.NewUserService(client, log),
		guard:    nav.NewGuard(sessions),
	}

	a.revalidate(ctx)

	if err := a.run(ctx, flag.Args()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func buildStorage(ctx context.Context, cfg *config.Config) (ports.SlotStorage, error) {
	switch cfg.Session.Backend {
	case "redis":
		client, err := storage.Connect(ctx, storage.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return storage.NewRedisStorage(client, cfg.Redis.Namespace), nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		path := cfg.Session.CredentialsFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home dir: %w", err)
			}
			path = filepath.Join(home, ".dealpipeline", "credentials.json")
		}
		return storage.NewFileStorage(path), nil
	}
}

// revalidate refreshes a restored session against the profile endpoint. A
// rejected token destroys the session; network trouble leaves it alone.
func (a *app) revalidate(ctx context.Context) {
	if !a.sessions.IsAuthenticated() {
		return
	}
	profile, err := a.users.CurrentProfile(ctx)
	if err != nil {
		var authErr *domain.AuthenticationError
		if errors.As(err, &authErr) {
			_ = a.sessions.Logout(ctx)
		}
		return
	}
	_ = a.sessions.UpdateIdentity(ctx, domain.Identity{
		Username: profile.Username,
		Email:    profile.Email,
		Role:     profile.Role,
	})
}

// checkGuard runs the navigation gates for dest and refuses the command
// when the gate redirects.
func (a *app) checkGuard(dest nav.Destination) error {
	decision := a.guard.Check(dest)
	if decision.Allowed {
		return nil
	}
	if decision.Redirect == nav.LoginDest {
		return errors.New("not logged in, run: dealctl login <username> <password>")
	}
	return fmt.Errorf("insufficient role for %s", dest.Name)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errors.New("usage: dealctl login <username> <password>")
		}
		session, err := a.sessions.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", session.Identity.Username, session.Identity.Role)
		return nil
	case "logout":
		return a.sessions.Logout(ctx)
	case "whoami":
		session := a.sessions.CurrentSession()
		if !session.IsAuthenticated() {
			return errors.New("not logged in")
		}
		return printJSON(session.Identity)
	case "deals":
		return a.runDeals(ctx, args[1:])
	case "users":
		return a.runUsers(ctx, args[1:])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) runDeals(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing deals subcommand")
	}
	if err := a.checkGuard(nav.DealListDest); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		deals, err := a.deals.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(deals)
	case "get":
		if len(args) != 2 {
			return errors.New("usage: dealctl deals get <id>")
		}
		deal, err := a.deals.Get(ctx, args[1])
		if err != nil {
			return err
		}
		return printJSON(deal)
	case "create":
		if len(args) < 7 {
			return errors.New("usage: dealctl deals create <clientName> <dealType> <sector> <value> <stage> <summary> [assignedTo]")
		}
		value, err := strconv.ParseInt(args[4], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid deal value %q", args[4])
		}
		input := ports.CreateDealInput{
			ClientName:   args[1],
			DealType:     domain.DealType(args[2]),
			Sector:       args[3],
			DealValue:    value,
			CurrentStage: domain.DealStage(args[5]),
			Summary:      args[6],
		}
		if len(args) > 7 {
			input.AssignedTo = args[7]
		}
		deal, err := a.deals.Create(ctx, input)
		if err != nil {
			return err
		}
		return printJSON(deal)
	case "update":
		if len(args) < 6 {
			return errors.New("usage: dealctl deals update <id> <clientName> <dealType> <sector> <summary> [assignedTo]")
		}
		input := ports.UpdateBasicFieldsInput{
			ClientName: args[2],
			DealType:   domain.DealType(args[3]),
			Sector:     args[4],
			Summary:    args[5],
		}
		if len(args) > 6 {
			input.AssignedTo = args[6]
		}
		deal, err := a.deals.UpdateBasicFields(ctx, args[1], input)
		if err != nil {
			return err
		}
		return printJSON(deal)
	case "stage":
		if len(args) != 3 {
			return errors.New("usage: dealctl deals stage <id> <stage>")
		}
		deal, err := a.deals.Get(ctx, args[1])
		if err != nil {
			return err
		}
		result, err := a.deals.UpdateStage(ctx, deal, domain.DealStage(args[2]))
		if err != nil {
			return err
		}
		if result.NoOp {
			fmt.Println("stage unchanged")
			return nil
		}
		return printJSON(result.Deal)
	case "value":
		if len(args) != 3 {
			return errors.New("usage: dealctl deals value <id> <amount>")
		}
		value, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		deal, err := a.deals.UpdateValue(ctx, args[1], value)
		if err != nil {
			return err
		}
		return printJSON(deal)
	case "note":
		if len(args) != 3 {
			return errors.New("usage: dealctl deals note <id> <text>")
		}
		deal, err := a.deals.AddNote(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		return printJSON(deal)
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: dealctl deals delete <id>")
		}
		// Deletion is an admin surface: hide it from non-admins here, while
		// the server stays the final authority.
		if !a.sessions.IsAdmin() {
			return errors.New("deals delete is available to admins only")
		}
		if err := a.deals.Delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	default:
		return fmt.Errorf("unknown deals subcommand %q", args[0])
	}
}

func (a *app) runUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing users subcommand")
	}
	if err := a.checkGuard(nav.AdminUsersDest); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		users, err := a.users.ListUsers(ctx)
		if err != nil {
			return err
		}
		return printJSON(users)
	case "create":
		if len(args) != 5 {
			return errors.New("usage: dealctl users create <username> <email> <password> <role>")
		}
		user, err := a.users.CreateUser(ctx, ports.CreateUserInput{
			Username: args[1],
			Email:    args[2],
			Password: args[3],
			Role:     domain.Role(args[4]),
		})
		if err != nil {
			return err
		}
		return printJSON(user)
	case "activate", "deactivate":
		if len(args) != 2 {
			return fmt.Errorf("usage: dealctl users %s <id>", args[0])
		}
		user, err := a.users.SetUserActive(ctx, args[1], args[0] == "activate")
		if err != nil {
			return err
		}
		return printJSON(user)
	default:
		return fmt.Errorf("unknown users subcommand %q", args[0])
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
