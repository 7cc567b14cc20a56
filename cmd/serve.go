package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/emocong/api"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(st *state) *cobra.Command {
	var analyze bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored analyses, runs and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := st.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			p, m := st.pipeline(s)
			if analyze {
				sum, err := p.Run(ctx, nil)
				if err != nil {
					return err
				}
				st.log.WithFields(logrus.Fields{"ok": sum.OK, "fail": sum.Fail}).Info("startup batch done")
			}

			srv := &http.Server{
				Addr:              st.cfg.Server.Addr,
				Handler:           api.NewRouter(&api.App{Store: s, Logger: st.log}, m.Registry()),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			errc := make(chan error, 1)
			go func() {
				st.log.WithField("addr", srv.Addr).Info("starting HTTP server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			st.log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "analyze every discovered video before serving")
	return cmd
}
