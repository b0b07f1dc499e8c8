package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/floaty/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve notes and settings over loopback HTTP",
		Long: `Serve exposes the note log and settings to the desktop window as a JSON
API. It only listens on loopback addresses. Logs are JSON on stderr.

Routes:
  GET    /api/notes
  POST   /api/notes
  PUT    /api/notes/{n}
  DELETE /api/notes/{n}
  GET    /api/settings
  PUT    /api/settings
  GET    /health/live
  GET    /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ServeAddr
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: a.cfg.SlogLevel(),
			}))

			sess := a.session()
			svc := api.NewService(sess, a.settings)
			srv := &api.Server{
				Addr:    addr,
				Handler: api.NewRouter(svc, logger),
				Logger:  logger,
			}
			if a.cfg.ShellWatch {
				srv.Background = append(srv.Background, func(ctx context.Context) error {
					if err := sess.Watch(ctx); err != nil {
						logger.Warn("not watching notes for changes", slog.String("error", err.Error()))
					}
					return nil
				})
			}
			logger.Info("Configuration loaded",
				slog.String("http_address", addr),
				slog.String("data_dir", a.cfg.DataDir),
				slog.String("config_dir", a.cfg.ConfigDir))
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "loopback listen address (default from serve.addr)")
	return cmd
}
