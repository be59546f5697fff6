package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/completion"
	"github.com/Jamolkhon5/hackwoo/internal/ai/idea/service"
	"github.com/Jamolkhon5/hackwoo/internal/auth"
	"github.com/Jamolkhon5/hackwoo/internal/client"
	"github.com/Jamolkhon5/hackwoo/internal/config"
	"github.com/Jamolkhon5/hackwoo/internal/repository"
	"github.com/Jamolkhon5/hackwoo/internal/savedideas"
)

var (
	serverURL string
	token     string
	dbPath    string
	verbose   bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "hackwoo",
	Short: "Hackathon idea generator",
	Long: `hackwoo suggests a hackathon project for your team and splits the work.

Without --server the model is called directly with keys from .env or the
environment (GOOGLE_API_KEY, MISTRAL_API_KEY, ANTHROPIC_API_KEY).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("HACKWOO_SERVER"), "server base URL; empty calls the model directly")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("HACKWOO_TOKEN"), "bearer token for the server")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "local database for saved ideas")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(wizardCmd, generateCmd, ideasCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "hackwoo", "hackwoo.db")
}

// newGenerator возвращает клиента сервера или локального ассистента
func newGenerator() (service.Generator, error) {
	if serverURL != "" {
		return client.New(serverURL, token, nil), nil
	}
	cfg, err := config.NewConfig(".env")
	if err != nil {
		return nil, err
	}
	completer, err := completion.New(cfg.Completion())
	if err != nil {
		return nil, err
	}
	return service.NewIdeaAssistant(completer, logger), nil
}

// openSaved открывает список сохраненных идей в локальной базе
func openSaved(ctx context.Context) (*savedideas.List, func(), error) {
	db, err := repository.Connect(repository.DriverSQLite, dbPath)
	if err != nil {
		return nil, nil, err
	}
	repo := repository.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	list, err := savedideas.Load(ctx, repo.KV(auth.LocalIdentity.UserID))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return list, func() { db.Close() }, nil
}
