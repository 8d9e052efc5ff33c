package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kredenk/shiguang-warehouse/config"
	"github.com/Kredenk/shiguang-warehouse/internal/dto"
	"github.com/Kredenk/shiguang-warehouse/internal/service"
	applogger "github.com/Kredenk/shiguang-warehouse/pkg/logger"
)

func parseCmd() *cobra.Command {
	var verbose bool
	var asKbList bool

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "解析保存下来的 kbList JSON 并输出规范化后的课程",
		Long: "读取教务系统个人课表接口的原始响应（文件或 - 表示标准输入），\n" +
			"输出与入库一致的课程会话 JSON。--kblist 以 kbList 字段名回写。",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			records, err := service.DecodeKbPayload(raw)
			if err != nil {
				return err
			}

			logger := zap.NewNop()
			if verbose {
				logger, err = applogger.NewLogger(&config.LogConfig{Level: "debug", Format: "console"})
				if err != nil {
					return err
				}
				defer logger.Sync()
			}

			result := service.NormalizeCoursesWithLogger(records, logger)
			fmt.Fprintf(cmd.ErrOrStderr(), "原始记录 %d 条，有效 %d 条，跳过 %d 条\n",
				result.RawCount, len(result.Sessions), result.Skipped)

			var out interface{} = result.Sessions
			if asKbList {
				out = map[string]interface{}{
					"kbList": lo.Map(result.Sessions, func(s dto.SessionEntry, _ int) dto.RawCourseRecord {
						return s.ToRawRecord(service.FormatWeeks(s.Weeks))
					}),
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出被跳过记录的调试日志")
	cmd.Flags().BoolVar(&asKbList, "kblist", false, "以 kbList 原始字段名输出")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	return data, nil
}
