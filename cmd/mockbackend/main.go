// Command mockbackend serves canned classification results on the backend
// API so the dashboard can be tried without Reddit credentials.
package main

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

	"huntdash/internal/mockapi"
	"huntdash/internal/util/logx"
)

func main() {
	logx.SetLevelFromEnv()
	logx.SetStderr(true)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		interval int
		notified bool
	)
	c := &cobra.Command{
		Use:          "mockbackend",
		Short:        "Serve canned demand and task posts on the backend API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := mockapi.New(mockapi.Options{IntervalMinutes: interval, Notified: notified})
			return serve(cmd.Context(), addr, logRequests(api))
		},
	}
	c.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	c.Flags().IntVar(&interval, "interval", 30, "scheduler interval reported in minutes")
	c.Flags().BoolVar(&notified, "notified", false, "report scan-now notifications as sent")
	return c
}

func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logx.Infof("mockbackend: listening on http://%s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logx.Infof("mockbackend: stopped")
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Infof("mockbackend: %s %s (%s)", r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Microsecond))
	})
}
