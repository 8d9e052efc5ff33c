package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/pkg/jwt"
)

func tokenCmd() *cobra.Command {
	var owner string
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "token --owner <id>",
		Short: "按服务端配置为课表归属者签发访问令牌",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner = strings.TrimSpace(owner)
			if owner == "" {
				return fmt.Errorf("--owner 不能为空")
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(owner)
			if err != nil {
				return fmt.Errorf("签发令牌失败: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "课表归属者 ID")
	cmd.Flags().StringVar(&cfgPath, "config", "", "配置文件路径（默认 ./config/config.yaml）")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
