package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corey/acnh/internal/adapters/fsnotify"
	"github.com/corey/acnh/internal/adapters/web"
	"github.com/corey/acnh/internal/app"
	"github.com/corey/acnh/internal/config"
	"github.com/corey/acnh/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page and JSON API",
	Long: "Holds the selection store open and serves it over HTTP. While it runs,\n" +
		"the other commands in this project talk to it instead of the store.\n" +
		"The catalog file is reloaded when it changes (catalog.watch).",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := config.NewPaths(root)
	if addr, ok := runningServer(paths); ok {
		printOut(cmd, fmt.Sprintf("⚡ server already running at http://%s\n", addr))
		return nil
	}

	cfg, err := config.Load(root, flagConfig)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	paths.CleanEphemeral()
	if cfg.Log.File == "" {
		cfg.Log.File = paths.ServeLog
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := openApp(cfg, paths, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Catalog.Watch {
		w, err := fsnotify.NewWatcher(0)
		if err != nil {
			return err
		}
		w.OnError = func(err error) { logger.Warn("catalog watcher", zap.Error(err)) }
		if err := a.WatchCatalog(w); err != nil {
			w.Stop()
			return err
		}
	}

	srv := web.NewServer(a,
		web.WithLogger(logger),
		web.WithMetrics(a.Metrics().Registry()),
		web.WithErrorStatus(func(err error) int {
			if errors.Is(err, app.ErrNotInitialized) {
				return http.StatusServiceUnavailable
			}
			return 0
		}),
		web.WithPortFile(paths.PortFile),
	)
	if err := srv.Start(cfg.Server.Addr); err != nil {
		return err
	}
	defer srv.Stop()

	printOut(cmd, fmt.Sprintf("%s⚡ acnh serving%s at %s │ %d items │ %s\n",
		colorBold, colorReset, srv.URL(), a.Catalog().Len(), cfg.Storage.Backend))
	printOut(cmd, fmt.Sprintf("%s  log: %s%s\n", colorGray, cfg.Log.File, colorReset))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	printOut(cmd, "\n⚡ shutting down...\n")
	return nil
}
