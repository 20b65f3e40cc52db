package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
	"github.com/JulHeg/LeRobotPanorama/internal/core/service"
	"github.com/JulHeg/LeRobotPanorama/internal/infrastructure/sqlite"
	"github.com/JulHeg/LeRobotPanorama/internal/logwatch"
	"github.com/JulHeg/LeRobotPanorama/pkg/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lerobot-panorama",
	Short: "LeRobot Panorama - robot capture run management",
	Long: `LeRobot Panorama manages panorama capture and debug movement runs
for a LeRobot follower arm.

It provides:
- Launching the panorama capture and debug movement scripts with
  configurable robot parameters
- Per-run log files with a polling API for live output
- A run ledger with status and exit codes
- REST API with JWT authentication`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/lerobot-panorama/config.yml)")
}

// initServices initializes all services
func initServices(ctx context.Context) (*Services, error) {
	// Initialize database
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Initialize repositories
	userRepo := sqlite.NewUserRepository(db)
	runRepo := sqlite.NewRunRepository(db)

	// The log watcher is optional; without it the log service falls
	// back to scanning the directory on every request.
	watcher, err := logwatch.New(cfg.LogsDir)
	if err != nil {
		log.Printf("log watcher unavailable, falling back to directory scans: %v", err)
		watcher = nil
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecretKey, cfg.JWTAlgorithm)
	runService := service.NewRunService(runRepo, cfg)
	logService := service.NewLogService(cfg.LogsDir, watcher)

	return &Services{
		DB:          db,
		UserRepo:    userRepo,
		RunRepo:     runRepo,
		Watcher:     watcher,
		AuthService: authService,
		RunService:  runService,
		LogService:  logService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *sqlite.DB
	UserRepo    repository.UserRepository
	RunRepo     repository.RunRepository
	Watcher     *logwatch.Watcher
	AuthService *service.AuthService
	RunService  *service.RunService
	LogService  *service.LogService
}

// Close closes all resources
func (s *Services) Close() {
	if s.Watcher != nil {
		s.Watcher.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
