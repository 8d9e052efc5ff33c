package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/pkg/database"
)

func migrateCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "管理课表库的 schema 版本",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")

	withMigrator := func(run func(mg *database.Migrator) (database.SchemaVersion, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger := zap.NewNop()
			db, err := database.NewDB(&cfg.Database, "error", logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			mg, err := database.NewMigrator(sqlDB, logger)
			if err != nil {
				return err
			}
			sv, err := run(mg)
			if err != nil {
				return err
			}
			printVersion(cmd.OutOrStdout(), sv)
			return nil
		}
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "回滚迁移",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(mg *database.Migrator) (database.SchemaVersion, error) {
			return mg.Down(steps)
		}),
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "回滚的版本数")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "迁移到最新版本",
			Args:  cobra.NoArgs,
			RunE:  withMigrator((*database.Migrator).Up),
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "查看当前版本",
			Args:  cobra.NoArgs,
			RunE:  withMigrator((*database.Migrator).Version),
		},
	)
	return cmd
}

func printVersion(w io.Writer, sv database.SchemaVersion) {
	switch {
	case sv.Version == 0 && !sv.Dirty:
		fmt.Fprintln(w, "schema: 未迁移")
	case sv.Dirty:
		fmt.Fprintf(w, "schema: %d (dirty)\n", sv.Version)
	default:
		fmt.Fprintf(w, "schema: %d\n", sv.Version)
	}
}
