package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/greet-playground/internal/form"
	"github.com/janisto/greet-playground/internal/platform/config"
	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// Version can be overridden at build time: -ldflags "-X .../commands.Version=1.2.3"
var Version = "dev"

// Front is the audit name of the CLI.
const Front = "cli"

// errReported marks failures already written to stderr by the error output.
var errReported = errors.New("reported")

// env is everything the command touches outside its flags.
type env struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	isTerminal func() bool
	prompt     Prompter
	loadConfig func() (config.Config, error)
}

type options struct {
	url     string
	cbor    bool
	timeout time.Duration
	local   bool
	verbose bool
}

// Execute runs the greet command against the process's stdio.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(&env{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		isTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
		prompt:     surveyPrompter{},
		loadConfig: config.Load,
	})
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		_, _ = fmt.Fprintln(os.Stderr, "greet:", err)
	}
	_ = applog.Sync()
	return err
}

func newRootCmd(e *env) *cobra.Command {
	var opts options
	var cfg config.Config

	root := &cobra.Command{
		Use:   "greet [name]",
		Short: "Ask the greeting service to greet a name",
		Long: "Submits a name to the greeting service and prints the greeting.\n" +
			"Without a name argument the name is prompted for on a terminal, or read\n" +
			"from the first line of standard input otherwise.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := zapcore.ErrorLevel
			if opts.verbose {
				level = zapcore.DebugLevel
			}
			logger, err := applog.New("stderr", level)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			applog.Replace(logger)

			loaded, err := e.loadConfig()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := opts.apply(cfg, cmd)
			if err != nil {
				return err
			}
			svc, err := settings.NewGreeter("greet-cli/" + Version)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			name, err := readName(ctx, e, args)
			if err != nil {
				return err
			}
			return submit(ctx, e, svc, name, settings.GreeterTimeout)
		},
	}

	root.Flags().StringVar(&opts.url, "url", "", "greeting service base URL (default $GREETER_URL or http://localhost:$PORT)")
	root.Flags().BoolVar(&opts.cbor, "cbor", false, "talk CBOR instead of JSON to the greeting service")
	root.Flags().DurationVar(&opts.timeout, "timeout", 0, "bound for the greeting call (default $GREETER_TIMEOUT)")
	root.Flags().BoolVar(&opts.local, "local", false, "greet in process instead of calling the service")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")
	root.MarkFlagsMutuallyExclusive("local", "url")

	root.SetIn(e.in)
	root.SetOut(e.out)
	root.SetErr(e.errOut)
	return root
}

// apply layers the flags over the environment configuration.
func (o options) apply(cfg config.Config, cmd *cobra.Command) (config.Config, error) {
	switch {
	case o.local:
		cfg.GreeterURL = ""
	case o.url != "":
		cfg.GreeterURL = o.url
	case cfg.GreeterURL == "":
		cfg.GreeterURL = "http://localhost:" + cfg.Port
	}
	if o.cbor {
		cfg.GreeterFormat = config.FormatCBOR
	}
	if cmd.Flags().Changed("timeout") {
		if o.timeout <= 0 {
			return cfg, fmt.Errorf("--timeout must be positive, got %s", o.timeout)
		}
		cfg.GreeterTimeout = o.timeout
	}
	return cfg, nil
}

// submit runs one form submission against terminal-backed elements.
func submit(ctx context.Context, e *env, svc greeter.Service, name string, timeout time.Duration) error {
	elems := terminalElements(name, e.out, e.errOut)
	h, err := form.NewHandler(svc, elems,
		form.WithTimeout(timeout),
		form.WithAudit(Front, ""),
	)
	if err != nil {
		return err
	}
	if err := h.Submit(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}
