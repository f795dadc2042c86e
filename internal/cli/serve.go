package cli

import (
	"database/sql"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/wichananm65/pet-shop-storefront/internal/devapi"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local dev backend",
		Long: `Starts a stand-in for the shop API: catalogue, auth, banners and
personalized image generation. With DATABASE_URL set the data lives in
Postgres; otherwise a seeded in-memory catalogue and a demo account are used.`,
		Example: `  # In-memory backend on the default address
  storefront serve

  # Postgres-backed on a custom port
  DATABASE_URL=postgres://localhost/shop storefront serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if cmd.Flags().Changed("static") {
				a.cfg.StaticDir = staticDir
			}
			return runDevAPI(cmd, a.cfg.Addr, a.cfg.StaticDir, a.cfg.DatabaseURL, a.cfg.JWTSecret, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default $PET_SHOP_ADDR)")
	cmd.Flags().StringVar(&staticDir, "static", "", "Static files directory (default $STOREFRONT_STATIC_DIR)")
	return cmd
}

func runDevAPI(cmd *cobra.Command, addr, staticDir, databaseURL, secret string, logger *zap.Logger) error {
	var db *sql.DB
	if databaseURL != "" {
		var err error
		if db, err = devapi.OpenDB(databaseURL); err != nil {
			return err
		}
		defer db.Close()
		if err := devapi.Migrate(db); err != nil {
			return err
		}
	}

	srv, err := devapi.New(devapi.Options{
		JWTSecret: secret,
		StaticDir: staticDir,
		DB:        db,
		Logger:    logger.Named("devapi"),
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Listen(addr); err != nil {
			serverErr <- err
		}
	}()
	cmd.Printf("Dev backend available at http://localhost%s/api\n", addr)

	select {
	case <-cmd.Context().Done():
		logger.Info("shutting down dev backend")
		done := make(chan error, 1)
		go func() { done <- srv.Shutdown() }()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("dev backend shutdown timed out")
		}
	case err := <-serverErr:
		return err
	}
}
