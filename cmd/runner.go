package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/grand/internal/generation"
	"github.com/desertthunder/grand/internal/repositories"
	"github.com/desertthunder/grand/internal/services"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
	"github.com/desertthunder/grand/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultDevice = "local"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services are built from the configuration in [Runner.before] unless they were injected.
type Runner struct {
	config     *shared.Config
	configPath string
	configured bool
	api        *services.APIService
	engine     *tasks.ContentEngine
	state      session.Backend
	devices    *repositories.DeviceRepository
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	device     string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Engine     *tasks.ContentEngine
	State      session.Backend
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	configured := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		configured: configured,
		api:        opts.API,
		engine:     opts.Engine,
		state:      opts.State,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		device:     defaultDevice,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, authCommand, profileCommand, contentCommand,
		activityCommand, feedbackCommand, hogarCommand, backendCommand, refreshCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the configuration named by --config and builds the services that were not injected.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); !r.configured || cmd.IsSet("config") {
		r.loadConfig(path)
	}
	shared.ApplyEnv(r.config)

	r.device = r.config.Session.Device
	if cmd.IsSet("device") || r.device == "" {
		r.device = cmd.String("device")
	}
	if cmd.Bool("ephemeral") {
		r.config.Session.Ephemeral = true
	}

	r.wire(ctx)
	return ctx, nil
}

// loadConfig reads path when it exists and keeps the defaults otherwise.
func (r *Runner) loadConfig(path string) {
	r.configPath = path
	r.configured = true
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return
	}
	r.config = config
}

// wire builds the backend client and the content engine from the configuration.
func (r *Runner) wire(ctx context.Context) {
	cfg := r.config
	if r.api == nil {
		r.api = services.NewAPIService(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.Timeout()})
	}
	if r.engine != nil {
		return
	}

	var llm services.TextGenerator
	if cfg.AI.APIKey != "" {
		llm = services.NewOpenAIClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, r.httpClient, r.logger)
	} else {
		r.logger.Debug("no AI api key configured, generated content will use fallbacks")
	}

	gen := generation.New(llm, generation.OptionsFromConfig(cfg.AI), r.logger)
	r.engine = tasks.NewContentEngine(services.NewBackendService(r.api, r.logger), gen, r.logger)

	if cfg.Credentials.Spotify.Configured() {
		if spotify, err := services.NewSpotifyService(ctx, cfg.Credentials.Spotify); err == nil {
			r.engine.WithMetadata(spotify)
		} else {
			r.logger.Warn("spotify metadata disabled", "error", err)
		}
	}
}

// after releases the database opened by [Runner.stateBackend].
func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// stateBackend opens the device state store: memory when ephemeral, SQLite otherwise.
func (r *Runner) stateBackend() (session.Backend, error) {
	if r.state != nil {
		return r.state, nil
	}
	if r.config.Session.Ephemeral {
		r.state = session.NewMemoryBackend(0)
		return r.state, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.devices = repositories.NewDeviceRepository(db)
	r.state = repositories.NewStateRepository(db)
	return r.state, nil
}

// store returns the state of the CLI's device, registering the device on first use.
func (r *Runner) store() (*session.Store, error) {
	state, err := r.stateBackend()
	if err != nil {
		return nil, err
	}
	if r.devices != nil {
		if _, err := r.devices.Ensure(r.device, "cli"); err != nil {
			return nil, err
		}
		if err := r.devices.Touch(r.device); err != nil {
			r.logger.Warn("failed to touch device", "device", r.device, "error", err)
		}
	}
	return session.New(state, r.device), nil
}

// track prints progress updates while fn runs and waits for the printer to drain. With --json the
// updates go to the debug log so stdout stays parseable.
func (r *Runner) track(cmd *cli.Command, fn func(progress chan<- tasks.ProgressUpdate) error) error {
	quiet := cmd != nil && cmd.Bool("json")
	progressCh := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if quiet {
				r.logger.Debug(update.Message, "phase", update.Phase)
				continue
			}
			switch update.Phase {
			case tasks.Enrich, tasks.TriggerGeneration, tasks.Refresh, tasks.Export:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("📥 %s\n", update.Message)
			}
		}
	}()

	err := fn(progressCh)
	close(progressCh)
	<-done
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}
