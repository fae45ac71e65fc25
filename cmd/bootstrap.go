package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/wkusuma/customs-case-management/internal/admin"
	"github.com/wkusuma/customs-case-management/pkg/logger"
)

// bootstrapCmd runs the same idempotent bootstrap that POST /admin/db-init
// exposes, for operators who prefer the shell.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Prepare the database: schema, roles, permissions and the admin account",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		bootstrapper := admin.NewBootstrapper(gormDB, logger.L(), cfg.Security.AdminInitialPassword, cfg.Security.BCryptCost)
		result, err := bootstrapper.Run()
		if err != nil {
			log.Fatalf("bootstrap failed: %v", err)
		}

		fmt.Printf("bootstrap complete: %d roles, %d permissions, %d grants created\n",
			result.RolesCreated, result.PermissionsCreated, result.GrantsCreated)
		if result.AdminCreated {
			fmt.Println("default admin account created (username: admin); change its password")
		}
	},
}
