package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcovr1980/ebh-backup/backup"
	"github.com/marcovr1980/ebh-backup/eboekhouden"
	"github.com/marcovr1980/ebh-backup/soap"
	"github.com/marcovr1980/ebh-backup/state"
)

var (
	// Global flags
	outDir string
	debug  bool

	// Run command flags
	dryRun    bool
	relations bool
	ledgers   bool
	balances  bool
	invoices  bool
	mutations bool
)

// config holds the credentials and endpoint, loaded from the environment
// (optionally via a .env file).
type config struct {
	Username      string `env:"EBH_USERNAME,required"`
	SecurityCode1 string `env:"EBH_SECURITY_CODE_1,required"`
	SecurityCode2 string `env:"EBH_SECURITY_CODE_2,required"`
	URL           string `env:"EBH_URL"`
	OutDir        string `env:"OUT_DIR"`
}

var rootCmd = &cobra.Command{
	Use:   "ebh-backup",
	Short: "CLI tool to backup e-Boekhouden.nl administration data",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the backup",
	Run:   runBackup,
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Display current backup state",
	Run:   showState,
}

var testConnectionCmd = &cobra.Command{
	Use:   "test-connection",
	Short: "Test API connection and credentials",
	Run:   testConnection,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&outDir, "out-dir", "output", "Output directory for backup files")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Run command flags
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without saving files or updating state")
	runCmd.Flags().BoolVar(&relations, "relations", false, "Backup relations")
	runCmd.Flags().BoolVar(&ledgers, "ledgers", false, "Backup ledgers")
	runCmd.Flags().BoolVar(&balances, "balances", false, "Backup ledger balances")
	runCmd.Flags().BoolVar(&invoices, "invoices", false, "Backup invoices")
	runCmd.Flags().BoolVar(&mutations, "mutations", false, "Backup mutations")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(testConnectionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger.Sugar()
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// loadConfig reads the optional .env file and parses the environment. The
// OUT_DIR variable backs the --out-dir flag when the flag is not set.
func loadConfig(cmd *cobra.Command, log *zap.SugaredLogger) (config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugw("no .env file loaded (optional)", "error", err)
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, err
	}

	if !cmd.Flags().Changed("out-dir") && !rootCmd.PersistentFlags().Changed("out-dir") && cfg.OutDir != "" {
		outDir = cfg.OutDir
	}
	outDir = expandTilde(outDir)

	return cfg, nil
}

func newAPIClient(cfg config, log *zap.SugaredLogger) *eboekhouden.Client {
	var transportOpts []soap.Option
	if cfg.URL != "" {
		transportOpts = append(transportOpts, soap.WithURL(cfg.URL))
	}
	transportOpts = append(transportOpts, soap.WithLogger(log))

	transport := soap.New(transportOpts...)
	return eboekhouden.NewClient(transport, cfg.Username, cfg.SecurityCode1, cfg.SecurityCode2,
		eboekhouden.WithLogger(log))
}

func showState(cmd *cobra.Command, args []string) {
	log := newLogger()
	if _, err := loadConfig(cmd, log); err != nil {
		log.Fatalw("configuration error", "error", err)
	}

	statePath := filepath.Join(outDir, "state.json")
	stateManager := state.NewManager(statePath)

	if err := stateManager.Load(); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("No state file found at %s\n", statePath)
			fmt.Println("Run 'ebh-backup run' to create an initial backup.")
			return
		}
		log.Fatalw("error loading state", "error", err)
	}

	fmt.Printf("State file: %s\n\n", statePath)
	fmt.Println("Last export times:")
	fmt.Printf("  Invoices:  %s\n", stateManager.State.LastExport.Invoices)
	fmt.Printf("  Mutations: %s\n", stateManager.State.LastExport.Mutations)
}

func testConnection(cmd *cobra.Command, args []string) {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		log.Fatalw("configuration error", "error", err)
	}

	client := newAPIClient(cfg, log)
	ctx := context.Background()
	defer client.Close(ctx)

	fmt.Println("Testing API connection...")

	accounts, err := client.ListLedgers(ctx, eboekhouden.LedgerFilter{})
	if err != nil {
		log.Fatalw("connection failed", "error", err)
	}

	fmt.Println("Connection successful!")
	fmt.Printf("Found %d ledger account(s).\n", len(accounts))
}

func runBackup(cmd *cobra.Command, args []string) {
	log := newLogger()
	cfg, err := loadConfig(cmd, log)
	if err != nil {
		log.Fatalw("configuration error", "error", err)
	}

	client := newAPIClient(cfg, log)
	ctx := context.Background()
	defer client.Close(ctx)

	// Ensure output directory exists before creating state file there
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalw("failed to create output directory", "error", err)
	}

	stateManager := state.NewManager(filepath.Join(outDir, "state.json"))
	if err := stateManager.Load(); err != nil {
		log.Warnw("could not load state (starting fresh?)", "error", err)
	}

	log.Infow("starting backup", "out_dir", outDir)
	if dryRun {
		log.Infow("dry run mode: no files will be written, state will not be updated")
	}

	// Determine what to backup
	all := !relations && !ledgers && !balances && !invoices && !mutations
	runRelations := all || relations
	runLedgers := all || ledgers
	runBalances := all || balances
	runInvoices := all || invoices
	runMutations := all || mutations

	var hasErrors bool

	if runRelations {
		if err := backup.BackupRelations(ctx, client, outDir, dryRun, log); err != nil {
			log.Errorw("error backing up relations", "error", err)
			hasErrors = true
		}
	}

	if runLedgers {
		if err := backup.BackupLedgers(ctx, client, outDir, dryRun, log); err != nil {
			log.Errorw("error backing up ledgers", "error", err)
			hasErrors = true
		}
	}

	if runBalances {
		if err := backup.BackupBalances(ctx, client, outDir, dryRun, log); err != nil {
			log.Errorw("error backing up balances", "error", err)
			hasErrors = true
		}
	}

	if runInvoices {
		if err := backup.BackupInvoices(ctx, client, stateManager, outDir, dryRun, log); err != nil {
			log.Errorw("error backing up invoices", "error", err)
			hasErrors = true
		}
	}

	if runMutations {
		if err := backup.BackupMutations(ctx, client, stateManager, outDir, dryRun, log); err != nil {
			log.Errorw("error backing up mutations", "error", err)
			hasErrors = true
		}
	}

	if hasErrors {
		log.Errorw("backup completed with errors")
		os.Exit(1)
	}
	log.Infow("backup completed successfully")
}
