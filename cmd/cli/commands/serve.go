package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/logistica/presencas/pkg/api"
	"github.com/logistica/presencas/pkg/auth"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = app.Cfg.Server.Addr
			}

			allowed := append(append([]string{}, app.Cfg.Access.AllowedEmails...), app.Secrets.Users...)
			admins := append(append([]string{}, app.Cfg.Access.AdminEmails...), app.Secrets.Admins...)
			if len(allowed) == 0 && len(admins) == 0 {
				app.Logger.Warn("No e-mails are allowed to log in; set access.allowedEmails or users in the secrets file")
			}
			sessions := auth.NewSessionStore(auth.NewAllowList(allowed, admins), app.Cfg.Server.SessionTTL)

			handler := api.NewHandler(app.Database, sessions, app.Logger)
			handler.DefaultShift = app.Cfg.Import.DefaultShift
			handler.DBTarget = app.DBSettings.Redacted()
			if id := app.Cfg.Import.SpreadsheetID; id != "" {
				client, err := app.SheetsClient()
				if err != nil {
					app.Logger.Warn("Google Sheets import disabled", zap.Error(err))
				} else {
					handler.Sheets = client
					handler.SpreadsheetID = id
				}
			}

			server := &http.Server{
				Addr:         addr,
				Handler:      api.NewRouter(handler, app.Cfg.Server.AllowedOrigins),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("Server starting", zap.String("addr", addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-quit:
			}

			app.Logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			app.Logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to server.addr)")
	return cmd
}
