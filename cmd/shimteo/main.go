// Package main is the shimteo entry point: the terminal client by default, plus preference
// maintenance and an MCP server for assistants.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/app"
	"github.com/shimteo/shimteo/internal/config"
	"github.com/shimteo/shimteo/internal/db"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/narration"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/ui"
)

var version = "dev"

const appName = "shimteo"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Find climate shelters and check heat/cold illness symptoms",
		Long: `shimteo helps people find nearby heat and cold shelters, walk through a
short symptom self-assessment, and get guidance and nearby hospitals.

Run without a subcommand to start the terminal client.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(prefsCmd(&flags))
	cmd.AddCommand(mcpCmd(&flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, version)
		},
	})

	return cmd
}

// env is everything the subcommands share.
type env struct {
	cfg     *config.Config
	logger  *logging.ZapLogger
	db      *db.Store
	prefs   *prefs.Store
	metrics *prometheus.Registry
}

// bootstrap loads the configuration, opens the log and the preferences database.
func bootstrap(flags globalFlags, opts ...prefs.Option) (*env, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	store, err := db.Open(cfg.Storage.Path)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	base := []prefs.Option{
		prefs.WithPersister(store.Blob(prefs.StorageKey)),
		prefs.WithLogger(logger),
		prefs.WithInitialLanguage(i18n.DetermineLocale(os.Getenv("SHIMTEO_LANG"), os.Getenv("LANG"))),
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      store,
		prefs:   prefs.New(append(base, opts...)...),
		metrics: prometheus.NewRegistry(),
	}, nil
}

func (e *env) close() {
	if err := e.db.Close(); err != nil {
		e.logger.Warn("main", "closing storage", map[string]interface{}{"error": err})
	}
	_ = e.logger.Sync()
}

func (e *env) apiClient() *api.Client {
	return api.New(e.cfg.API.BaseURL,
		api.WithTimeout(e.cfg.API.Timeout),
		api.WithMetrics(api.NewMetrics(e.metrics)),
		api.WithLogger(e.logger),
	)
}

// serveMetrics exposes the registry on cfg.Metrics.Addr. The returned func stops the server.
func (e *env) serveMetrics() func() {
	if e.cfg.Metrics.Addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.metrics, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: e.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("main", "metrics server stopped", map[string]interface{}{"error": err})
		}
	}()
	e.logger.Info("main", "serving metrics", map[string]interface{}{"addr": e.cfg.Metrics.Addr})

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (e *env) narrator() narration.Narrator {
	n := e.cfg.Narration
	synth, err := narration.Detect(n.Command, narration.Settings{Rate: n.Rate, Pitch: n.Pitch, Volume: n.Volume}, e.logger)
	if err != nil {
		e.logger.Info("main", "voice narration unavailable", map[string]interface{}{"error": err})
		return narration.Noop{}
	}
	return synth
}

func runTUI(flags globalFlags) error {
	e, err := bootstrap(flags, prefs.WithPresenter(ui.Presenter{}))
	if err != nil {
		return err
	}
	defer e.close()

	stopMetrics := e.serveMetrics()
	defer stopMetrics()

	e.logger.Info("main", "starting", map[string]interface{}{
		"version": version,
		"api":     e.cfg.API.BaseURL,
	})

	model := app.New(app.Deps{
		Backend:         e.apiClient(),
		Prefs:           e.prefs,
		Narrator:        e.narrator(),
		Locator:         geo.EnvLocator{Var: "SHIMTEO_LOCATION"},
		Center:          geo.Point{Lat: e.cfg.Location.DefaultLat, Lon: e.cfg.Location.DefaultLon},
		HospitalRadiusM: e.cfg.Location.RadiusM,
		Logger:          e.logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Send from a goroutine: the subscriber can fire from inside Update.
	unsubscribe := e.prefs.Subscribe(func(p prefs.Preferences) {
		go program.Send(app.PrefsChangedMsg{Prefs: p})
	})
	defer unsubscribe()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
