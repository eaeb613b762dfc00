package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"text/tabwriter"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	gpucloud "github.com/gridvolt/gpucloud-go"
	"github.com/gridvolt/gpucloud-go/api/machines"
	"github.com/gridvolt/gpucloud-go/internal/config"
	"github.com/gridvolt/gpucloud-go/session"
	"github.com/gridvolt/gpucloud-go/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gpucloud: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if len(args) == 0 {
		usage()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !cfg.Debug {
		log = log.Level(zerolog.InfoLevel)
	}

	ctx := context.Background()
	console, err := buildConsole(ctx, cfg, log)
	if err != nil {
		return err
	}

	switch args[0] {
	case "login":
		return cmdLogin(ctx, console, args[1:])
	case "logout":
		console.Session.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return cmdWhoami(ctx, console)
	case "machines":
		return cmdMachines(ctx, console)
	case "workspaces":
		return cmdWorkspaces(ctx, console)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return errors.Errorf("unknown command %q", args[0])
	}
}

func buildConsole(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gpucloud.Console, error) {
	var storage session.Storage
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, errors.Wrap(err, "connect to redis")
		}
		storage = session.NewRedisStorage(rdb, cfg.RedisPrefix)
	} else {
		storage = session.NewFileStorage(cfg.TokenFile)
	}

	return gpucloud.New(ctx, cfg.APIBaseURL, storage,
		gpucloud.WithLogger(log),
		gpucloud.WithTimeout(cfg.Timeout),
		gpucloud.WithSessionExpiredHandler(func() {
			fmt.Fprintln(os.Stderr, "Session expired, please sign in again with `gpucloud login`.")
		}),
	)
}

func cmdLogin(ctx context.Context, console *gpucloud.Console, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return errors.New("login requires -u <username> and -p <password>")
	}

	banner()
	err := console.Session.Login(ctx, session.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	if console.Session.MustChangePassword() {
		fmt.Println("Signed in, but a password change is required before anything else.")
		return nil
	}
	fmt.Printf("Signed in as %s.\n", *username)
	return nil
}

func cmdWhoami(ctx context.Context, console *gpucloud.Console) error {
	if !console.Session.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	user := console.Session.User()
	if user == nil {
		fetched, err := console.Session.FetchProfile(ctx)
		if err != nil {
			return err
		}
		user = fetched
	}
	fmt.Printf("%s <%s> role=%s", user.Username, user.Email, user.Role)
	if user.TenantName != "" {
		fmt.Printf(" tenant=%s", user.TenantName)
	}
	fmt.Println()
	if exp, ok := console.Session.TokenExpiresAt(); ok {
		fmt.Printf("access token expires %s\n", exp.Format(time.RFC3339))
	}
	return nil
}

func cmdMachines(ctx context.Context, console *gpucloud.Console) error {
	page, err := console.Machines.List(ctx, transport.PageQuery{Page: 1, PageSize: 50}, machines.ListFilter{})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREGION\tSTATUS\tGPUS")
	for _, m := range page.List {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", m.ID, m.Name, m.Region, m.Status, len(m.GPUs))
	}
	return w.Flush()
}

func cmdWorkspaces(ctx context.Context, console *gpucloud.Console) error {
	page, err := console.Workspaces.List(ctx, transport.PageQuery{Page: 1, PageSize: 50})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tCREATED")
	for _, ws := range page.List {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", ws.ID, ws.Name, ws.MemberCount, ws.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func banner() {
	figure.NewFigure("gpucloud", "", true).Print()
}

func usage() {
	fmt.Println(`Usage: gpucloud <command>

Commands:
  login -u <user> -p <pass>   sign in and persist the session
  logout                      revoke and clear the session
  whoami                      show the current user
  machines                    list machines
  workspaces                  list workspaces`)
}
