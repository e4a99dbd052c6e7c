package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/pkg/storage"
)

// NewCleanupCmd creates the cleanup command.
func NewCleanupCmd() *cobra.Command {
	var (
		dryRun bool
		maxAge time.Duration
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reclaim expired files from temporary storage",
		Long: `Reclaim expired files from temporary storage.

This command runs a single reclamation pass over the temp directory and
removes files older than the maximum age. The running service does this
periodically on its own; cleanup is for reclaiming space while the service
is stopped. Use --dry-run to see what would be removed.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCleanup(dryRun, maxAge)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed without removing anything")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Maximum file age (defaults to the configured max_file_age)")

	return cmd
}

func runCleanup(dryRun bool, maxAge time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.InitLogger(cfg.Settings.LogLevel)

	if maxAge <= 0 {
		maxAge = cfg.Settings.MaxFileAge
	}

	files, err := storage.NewManager(cfg.Settings.TempDir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	if dryRun {
		expired, err := expiredFiles(files, maxAge)
		if err != nil {
			return err
		}
		if len(expired) == 0 {
			fmt.Println("No expired files found")
			return nil
		}
		fmt.Printf("Would remove %d expired files:\n", len(expired))
		for _, path := range expired {
			fmt.Printf("  %s\n", path)
		}
		return nil
	}

	deleted := files.ReclaimExpired(maxAge)
	if len(deleted) == 0 {
		fmt.Println("No expired files found")
	} else {
		fmt.Printf("Removed %d expired files\n", len(deleted))
	}
	return nil
}

func expiredFiles(files *storage.Manager, maxAge time.Duration) ([]string, error) {
	all, err := files.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}

	var expired []string
	for _, path := range all {
		age, err := files.FileAge(path)
		if err != nil {
			continue
		}
		if age > maxAge {
			expired = append(expired, path)
		}
	}
	return expired, nil
}
