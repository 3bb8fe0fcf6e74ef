package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lldpgraph/internal/handler"
	"lldpgraph/internal/hub"
	"lldpgraph/internal/ui"
	"lldpgraph/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var (
		addr     string
		dir      string
		page     string
		topology string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a rendered diagram over HTTP",
		Long: `Serve the diagram directory (the page plus its files/ and icons/
directories) so the diagram can be opened from another machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Output = cmd.OutOrStdout()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h := handler.NewDiagramHandler(dir, page, topology)
			if watch {
				startLiveReload(ctx, h, filepath.Join(dir, page), topology)
			}
			return serve(ctx, addr, handler.Chain(h.Routes(), handler.Recover, handler.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "HTTP listen address")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory holding the diagram, files/ and icons/")
	cmd.Flags().StringVar(&page, "page", handler.DefaultPage, "diagram served at /")
	cmd.Flags().StringVar(&topology, "topology", "", "exported topology served at /api/topology")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload open browsers when the diagram is rewritten")
	return cmd
}

// startLiveReload pushes a reload event to browsers whenever one of the
// served files is rewritten, until ctx is done
func startLiveReload(ctx context.Context, h *handler.DiagramHandler, paths ...string) {
	events := hub.New()
	go events.Run(ctx)
	h.EnableLiveReload(events)

	w := watcher.New(func(path string) {
		events.Broadcast(hub.NewReloadEvent(filepath.Base(path)))
	}, paths...)

	go func() {
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			ui.Warn(fmt.Sprintf("live reload disabled: %v", err))
		}
	}()
}

// serve runs the server until ctx is done
func serve(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server: listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ui.Success(fmt.Sprintf("Serving diagram on http://%s/ (Ctrl-C to stop)", displayAddr(addr)))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server: stopped")
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
