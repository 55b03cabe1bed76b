package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"synid/chainsol"
	"synid/solprogram"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the read-only HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
				a.cfg.ListenAddress = addr
			}

			client, closeFn, err := a.openClient()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if err := client.Chain().HealthCheck(ctx); err != nil {
				return err
			}

			server := &http.Server{
				Addr:              a.cfg.ListenAddress,
				Handler:           newRouter(client),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			a.log.WithField("listen_address", a.cfg.ListenAddress).Info("🚀 SynID API running")
			a.log.WithField("program_id", client.ProgramID().String()).Info("📦 serving program")

			select {
			case err := <-errCh:
				return errors.Wrap(err, "http server")
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("listen", "", "listen address, overrides LISTEN_ADDRESS")
	return cmd
}

func newRouter(client *solprogram.Client) http.Handler {
	chain := client.Chain()

	r := mux.NewRouter()
	r.HandleFunc("/health", chain.HandleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sol/balance", chain.HandleGetBalance).Methods(http.MethodGet)
	api.HandleFunc("/sol/transaction/status", chain.HandleGetTransactionStatus).Methods(http.MethodGet)
	api.HandleFunc("/sol/transaction/history", chain.HandleGetTransactionHistory).Methods(http.MethodGet)
	api.HandleFunc("/synid/pdas", client.HandleGetPDAs).Methods(http.MethodGet)
	api.HandleFunc("/synid/config", client.HandleGetConfig).Methods(http.MethodGet)
	api.HandleFunc("/synid/account", client.HandleGetSynid).Methods(http.MethodGet)
	api.HandleFunc("/synid/access", client.HandleGetAccess).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chainsol.RespondError(w, "no route for "+r.URL.Path, http.StatusNotFound)
	})
	return r
}
