package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"fitmrp-client/internal/api"
	"fitmrp-client/internal/auth"
	"fitmrp-client/internal/cart"
	"fitmrp-client/internal/catalog"
	"fitmrp-client/internal/config"
	"fitmrp-client/internal/db"
	"fitmrp-client/internal/document"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/order"
	"fitmrp-client/internal/tokenstore"
	"fitmrp-client/internal/user"

	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

type options struct {
	ephemeral bool
	verbose   bool
	profile   string
	email     string
	password  string
}

type app struct {
	cfg    *config.Config
	opts   options
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	client   *api.Client
	store    tokenstore.Store
	users    user.Service
	orders   order.Service
	catalog  catalog.Service
	exporter *document.Exporter

	session    *auth.Session
	conditions []cart.Condition
	closers    []func() error
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fitmrp", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the session in memory only")
	fs.BoolVar(&opts.verbose, "v", false, "log to stderr and print API call stats")
	fs.StringVar(&opts.profile, "profile", cfg.TokenProfile, "credential store profile")
	fs.StringVar(&opts.email, "email", "", "log in with this email before running the command")
	fs.StringVar(&opts.password, "password", "", "password for -email")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		usage(fs)
		return errUsage
	}

	if opts.verbose {
		logger.Init(cfg.AppEnv)
	} else {
		logger.Init("quiet")
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commandByName(name)
	if !ok {
		usage(fs)
		return fmt.Errorf("unknown command %q", name)
	}

	a, err := newApp(ctx, cfg, opts, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.session {
		if err := a.resolveSession(ctx); err != nil {
			return err
		}
	}

	err = cmd.run(ctx, a, rest)
	if opts.verbose {
		printStats(stderr, a.client.Stats())
	}
	return err
}

func newApp(ctx context.Context, cfg *config.Config, opts options, stdout, stderr io.Writer) (*app, error) {
	a := &app{
		cfg:    cfg,
		opts:   opts,
		out:    stdout,
		errOut: stderr,
		now:    time.Now,
	}

	a.client = api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	a.users = user.NewService(a.client, a.store, opts.profile)
	a.orders = order.NewService(a.client)
	a.catalog = catalog.NewService(a.client)
	a.exporter = document.NewExporter(cfg.ExportDir)
	return a, nil
}

// openStore picks the credential store. Without a passphrase nothing can be
// sealed, so the session stays in memory.
func (a *app) openStore(ctx context.Context) (tokenstore.Store, error) {
	log := logger.FromCtx(ctx)

	if a.opts.ephemeral {
		return tokenstore.NewMemoryStore(), nil
	}
	if a.cfg.TokenStorePassphrase == "" {
		log.Warn("TOKEN_STORE_PASSPHRASE not set, session will not be persisted")
		fmt.Fprintln(a.errOut, "warning: TOKEN_STORE_PASSPHRASE not set, session will not be saved")
		return tokenstore.NewMemoryStore(), nil
	}

	sealer, err := tokenstore.NewSealer(a.cfg.TokenStorePassphrase, tokenstore.DefaultKDF)
	if err != nil {
		return nil, err
	}

	conn, dialect, err := db.NewDatabase(a.cfg.TokenStoreDSN)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	a.closers = append(a.closers, conn.Close)

	if err := db.Migrate(conn, dialect, tokenstore.Migrations(), db.MigrateUp); err != nil {
		return nil, fmt.Errorf("migrate token store: %w", err)
	}
	return tokenstore.NewSQLStore(conn, dialect, sealer), nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.L().Warn("close failed", zap.Error(err))
		}
	}
}

func (a *app) resolveSession(ctx context.Context) error {
	if a.opts.email != "" {
		s, err := a.users.Login(ctx, a.opts.email, a.opts.password)
		if err != nil {
			return err
		}
		a.session = s
		return nil
	}

	s, err := a.users.Restore(ctx)
	switch {
	case errors.Is(err, auth.ErrNoSession):
		return errors.New("not logged in: run `fitmrp login` first")
	case errors.Is(err, auth.ErrSessionExpired):
		return errors.New("session expired: run `fitmrp login` again")
	case err != nil:
		return err
	}
	a.session = s
	return nil
}

func (a *app) cart() cart.Service {
	notifier := cart.NotifierFunc(func(ctx context.Context, c cart.Condition) {
		a.conditions = append(a.conditions, c)
		fmt.Fprintf(a.errOut, "! %s during %s: %v\n", c.Kind, c.Op, c.Err)
	})
	return cart.NewService(a.client, a.orders, a.session,
		cart.WithMutationPolicy(a.cfg.MutationPolicy),
		cart.WithNotifier(notifier),
	)
}

func (a *app) raised(kind cart.ConditionKind) bool {
	for _, c := range a.conditions {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func (a *app) customer() string {
	if a.session == nil {
		return ""
	}
	if a.session.Name != "" {
		return a.session.Name
	}
	return a.session.Email
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: fitmrp [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
	}
	sort.Strings(names)
	for _, n := range names {
		c, _ := commandByName(n)
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}
