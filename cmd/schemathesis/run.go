package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vyachin/schemathesis/internal/console"
	"github.com/vyachin/schemathesis/internal/history"
	"github.com/vyachin/schemathesis/pkg/codegen"
	"github.com/vyachin/schemathesis/pkg/config"
	"github.com/vyachin/schemathesis/pkg/credential"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/filter"
	"github.com/vyachin/schemathesis/pkg/runner"
	"github.com/vyachin/schemathesis/pkg/schema"
)

func newRunCommand() *cobra.Command {
	var (
		configPath  string
		baseURL     string
		inputTypes  []string
		filterExpr  string
		maxExamples int
		seed        int64
		verbose     bool
		noHistory   bool
		withAuth    bool
		sampleStyle string
	)

	cmd := &cobra.Command{
		Use:   "run [spec]",
		Short: "Run property tests against an API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, args, baseURL, inputTypes, filterExpr, maxExamples, seed)
			if cfg.Spec == "" {
				return fmt.Errorf("no specification given: pass a path/URL or set 'spec' in %s", config.DefaultFileName)
			}

			if _, err := codegen.New(codegen.Style(sampleStyle), codegen.Options{}); err != nil {
				return err
			}

			s, err := schema.Load(cfg.Spec, schema.WithBaseURL(cfg.BaseURL))
			if err != nil {
				return err
			}

			operationFilter, err := filter.Compile(cfg.Filter)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: cfg.Timeout}
			opts := []runner.Option{
				runner.WithEngine(engine.New(engine.WithMaxExamples(cfg.MaxExamples), engine.WithSeed(cfg.Seed))),
				runner.WithInputTypes(cfg.InputTypes...),
				runner.WithFilter(operationFilter),
				runner.WithHTTPClient(client),
			}
			if withAuth || cfg.Auth != "" {
				test, err := authenticatedCheck(s, client, cfg.Auth)
				if err != nil {
					return err
				}
				opts = append(opts, runner.WithTestFunc(test))
			}

			printerOpts := []console.Option{console.WithSampleStyle(codegen.Style(sampleStyle))}
			if verbose {
				printerOpts = append(printerOpts, console.WithVerbose())
			}
			printer := console.NewPrinter(os.Stdout, printerOpts...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results := runner.New(s, opts...).Execute(ctx, printer.Handle)

			if !noHistory {
				recordRun(cfg, s, results)
			}
			if results.HasFailures() {
				return fmt.Errorf("%d of %d checks failed", results.FailedCount(), len(results.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to run configuration file")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the API under test")
	cmd.Flags().StringSliceVar(&inputTypes, "input-types", nil, "input types to generate (valid, invalid)")
	cmd.Flags().StringVar(&filterExpr, "filter", "", `operation filter, e.g. 'MethodIs("GET")'`)
	cmd.Flags().IntVar(&maxExamples, "max-examples", 0, "examples generated per test item")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible generation")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print generated examples for every item")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this run in history")
	cmd.Flags().BoolVar(&withAuth, "auth", false, "authenticate using the stored credential for the target host")
	cmd.Flags().StringVar(&sampleStyle, "code-sample-style", string(codegen.StyleCurl),
		fmt.Sprintf("language of failure reproduction samples (%s)", strings.Join(codegen.Styles(), ", ")))

	return cmd
}

func loadConfig(path string) (*config.RunConfig, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.DefaultFileName); err == nil {
		return config.Load(config.DefaultFileName)
	}
	return config.Default(), nil
}

// applyFlags lets command-line flags override the file configuration.
func applyFlags(cmd *cobra.Command, cfg *config.RunConfig, args []string, baseURL string, inputTypes []string, filterExpr string, maxExamples int, seed int64) {
	if len(args) > 0 {
		cfg.Spec = args[0]
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if cmd.Flags().Changed("input-types") {
		cfg.InputTypes = cfg.InputTypes[:0]
		for _, raw := range inputTypes {
			cfg.InputTypes = append(cfg.InputTypes, schema.InputType(raw))
		}
	}
	if cmd.Flags().Changed("filter") {
		cfg.Filter = filterExpr
	}
	if cmd.Flags().Changed("max-examples") {
		cfg.MaxExamples = maxExamples
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
}

// authenticatedCheck wraps the default check with the stored credential for
// the target host. authOverride selects a credential by host name explicitly.
func authenticatedCheck(s *schema.Schema, client *http.Client, authOverride string) (schema.TestFunc, error) {
	host := authOverride
	if host == "" {
		parsed, err := url.Parse(s.BaseURL())
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("cannot determine target host for authentication from %q", s.BaseURL())
		}
		host = parsed.Host
	}

	store, err := credential.NewStore()
	if err != nil {
		return nil, err
	}
	cred, err := store.Get(host)
	if err != nil {
		return nil, err
	}
	headerName, headerValue := cred.Apply()

	check := runner.NotAServerError(s.BaseURL(), client)
	return func(c *schema.Case, fx schema.Fixtures) error {
		if c.Headers == nil {
			c.Headers = map[string]any{}
		}
		c.Headers[headerName] = headerValue
		return check(c, fx)
	}, nil
}

func recordRun(cfg *config.RunConfig, s *schema.Schema, results *runner.ResultSet) {
	path, err := historyPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return
	}
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		return
	}
	defer store.Close()

	var duration time.Duration
	for _, r := range results.Results {
		duration += r.Duration
	}
	_, err = store.Record(history.Summary{
		Spec:      cfg.Spec,
		BaseURL:   s.BaseURL(),
		StartedAt: results.StartedAt,
		Duration:  duration,
		Passed:    results.PassedCount(),
		Failed:    results.FailedCount(),
		Skipped:   results.SkippedCount(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
	}
}
