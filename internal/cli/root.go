// Package cli implements formctl, the operator CLI over form definitions and
// workspace integrity checks.
package cli

import (
	"fmt"
	"os"

	"github.com/damoang/angple-content/internal/bootstrap"
	"github.com/damoang/angple-content/internal/config"
	"github.com/damoang/angple-content/internal/domain"
	"github.com/damoang/angple-content/internal/form"
	"github.com/damoang/angple-content/pkg/i18n"
	pkglogger "github.com/damoang/angple-content/pkg/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Locale     string
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the formctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formctl",
		Short: "Manage form definitions and check workspace integrity",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", defaultConfigPath(), "config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", string(i18n.LocaleEn), "message locale")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewUniqueCommand(opts))
	cmd.AddCommand(NewAllowedCommand(opts))
	cmd.AddCommand(NewFoldersCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session is one CLI invocation's runtime plus a system-principal manager
type session struct {
	rt      *bootstrap.Runtime
	forms   *form.Manager
	locale  i18n.Locale
	out     *OutputFormatter
	cleanup func()
}

func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	out := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	out.VerboseLog("config: %s", o.ConfigPath)

	log := pkglogger.Nop()
	if o.Verbose {
		pkglogger.InitStructured(cfg.Env)
		log = pkglogger.GetLogger()
	}
	rt, err := bootstrap.Build(cfg, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "initialize", err)
	}

	locale := i18n.Locale(o.Locale)
	return &session{
		rt:      rt,
		forms:   rt.Forms.ForRequest(domain.SystemPrincipal(locale)),
		locale:  locale,
		out:     out,
		cleanup: rt.Close,
	}, nil
}

// withSession opens a session, runs fn and closes it
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(*session) error) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer s.cleanup()
	return fn(s)
}
