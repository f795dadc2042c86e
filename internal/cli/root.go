// Package cli is the storefront command line: catalogue browsing with
// personalized images, session management and the local dev backend.
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/catalog"
	"github.com/wichananm65/pet-shop-storefront/internal/config"
	"github.com/wichananm65/pet-shop-storefront/internal/personalize"
	"github.com/wichananm65/pet-shop-storefront/internal/session"
	"github.com/wichananm65/pet-shop-storefront/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
)

// app is the state shared by every subcommand once the root has run its
// pre-run hook.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	session *session.Session
	client  *api.Client
	alerts  *ui.Alerts
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	var (
		verbose     bool
		apiBase     string
		sessionFile string
	)

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the shop catalogue with personalized product images",
		Long: `Storefront is a terminal client for the fashion shop API.

Signed-in shoppers with a profile picture see personalized product images:
the client checks for one, asks the backend to generate it when needed and
polls until it is ready.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg := config.Load()
			if cmd.Flags().Changed("api-base") {
				cfg.APIBase = apiBase
			}
			if cmd.Flags().Changed("session-file") {
				cfg.SessionFile = sessionFile
			}
			return a.setup(cfg, verbose, cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	pf.StringVar(&apiBase, "api-base", "", "API root URL (default $STOREFRONT_API_BASE)")
	pf.StringVar(&sessionFile, "session-file", "", "Where the session is kept (default $STOREFRONT_SESSION_FILE)")

	cmd.AddCommand(
		newProductsCmd(a),
		newProductCmd(a),
		newCategoriesCmd(a),
		newPersonalizeCmd(a),
		newSlidesCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newNavCmd(a),
		newCheckPasswordCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func (a *app) setup(cfg config.Config, verbose bool, stderr io.Writer) error {
	a.cfg = cfg
	a.logger = newLogger(verbose, stderr)

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return err
	}
	a.session = session.New(store, a.logger.Named("session"))
	a.client = api.NewClient(cfg.APIBase,
		api.WithTokenSource(a.session),
		api.WithLogger(a.logger.Named("api")))

	a.alerts = ui.NewAlerts(cfg.AlertTTL)
	a.alerts.OnChange(func(alert *ui.Alert) {
		if alert == nil {
			return
		}
		fmt.Fprintln(stderr, alertStyle(alert.Kind).Render(alert.Message))
	})
	return nil
}

func (a *app) close() {
	if a.alerts != nil {
		a.alerts.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) catalog() *catalog.Catalog {
	return catalog.New(a.client, a.alerts, a.logger.Named("catalog"))
}

func (a *app) personalizer() *personalize.Manager {
	return personalize.NewManager(a.client, a.session, personalize.Options{
		InitialDelay: a.cfg.PollInitialDelay,
		Interval:     a.cfg.PollInterval,
		MaxAttempts:  a.cfg.PollMaxAttempts,
		Logger:       a.logger.Named("personalize"),
	})
}

func alertStyle(kind ui.Kind) lipgloss.Style {
	switch kind {
	case ui.KindSuccess:
		return successStyle
	case ui.KindInfo:
		return infoStyle
	}
	return errorStyle
}

// newLogger writes console-encoded logs to w: warnings and up by default,
// everything with verbose.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}
