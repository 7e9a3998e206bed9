package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/umanagarjuna/steam-bot/internal/bot/cache"
	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/format"
	"github.com/umanagarjuna/steam-bot/internal/bot/metrics"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
	"github.com/umanagarjuna/steam-bot/internal/bot/steam"
	"github.com/umanagarjuna/steam-bot/internal/bot/tasks"
	"github.com/umanagarjuna/steam-bot/pkg/validator"
)

// options holds the raw flag values shared by every subcommand.
type options struct {
	lang     string
	cc       string
	storeURL string
	apiURL   string
	timeout  time.Duration
	count    int
	stats    bool
}

// session is the fetch stack built once per invocation.
type session struct {
	steam      *steam.Client
	formatter  *format.Formatter
	settings   domain.Settings
	supervisor *tasks.Supervisor
	metrics    *metrics.InMemoryMetrics
	store      *cache.MemoryStore
}

func (s *session) close() {
	s.supervisor.Wait()
	s.store.Close()
}

func newSession(opts *options) (*session, error) {
	for _, u := range []string{opts.storeURL, opts.apiURL} {
		if err := validator.ValidateBaseURL(u); err != nil {
			return nil, err
		}
	}

	language, ok := domain.Lookup(domain.Languages, opts.lang)
	if !ok {
		return nil, fmt.Errorf("unknown language %q", opts.lang)
	}
	region, ok := domain.Lookup(domain.Regions, opts.cc)
	if !ok {
		return nil, fmt.Errorf("unknown region %q", opts.cc)
	}

	logger := zap.NewNop()
	m := metrics.NewInMemoryMetrics()
	supervisor := tasks.NewSupervisor(logger, m, opts.timeout)
	store := cache.NewMemoryStore(time.Minute)

	upstream := remote.NewClient(remote.Config{Timeout: opts.timeout, UserAgent: "steam-cli"}, m, logger)
	responses := cache.NewResponseCache(upstream, store, supervisor, m, logger, cache.Config{SingleFlight: true})

	return &session{
		steam:      steam.NewClient(responses, opts.storeURL, opts.apiURL),
		formatter:  format.NewFormatter(opts.storeURL),
		settings:   domain.Settings{Language: language, Region: region},
		supervisor: supervisor,
		metrics:    m,
		store:      store,
	}, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "steam-cli",
		Short:         "Query the Steam storefront the way the bot does.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.lang, "lang", string(domain.LanguageEnglish), "storefront language")
	flags.StringVar(&opts.cc, "cc", string(domain.RegionUS), "storefront region code")
	flags.StringVar(&opts.storeURL, "store-url", steam.DefaultStoreURL, "storefront base URL")
	flags.StringVar(&opts.apiURL, "api-url", steam.DefaultAPIURL, "web API base URL")
	flags.DurationVar(&opts.timeout, "timeout", remote.DefaultTimeout, "per-request timeout")
	flags.BoolVar(&opts.stats, "stats", false, "print cache and upstream counters")

	root.AddCommand(newSearchCmd(opts), newAppCmd(opts), newNewsCmd(opts))
	return root
}

// run wraps a subcommand body with session setup and teardown.
func run(opts *options, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts)
		if err != nil {
			return err
		}
		defer s.close()

		if err := fn(cmd, s, args); err != nil {
			return err
		}
		if opts.stats {
			s.supervisor.Wait()
			return printStats(cmd.OutOrStdout(), s.metrics)
		}
		return nil
	}
}
