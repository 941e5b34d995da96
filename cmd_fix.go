package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Xushengqwer/codefix_portal/models/dto"
)

var (
	fixFile     string
	fixInfo     string
	fixAdvanced bool
	fixLanguage string
)

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "提交代码进行纠错",
	Long: `读取代码并提交纠错，输出错误位置、修正后的代码与相关知识点。

--advanced 仅在代码纠错会员有效期内生效，否则自动使用普通模式。`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVarP(&fixFile, "file", "f", "-", "代码文件路径，- 表示标准输入")
	fixCmd.Flags().StringVar(&fixInfo, "info", "", "补充说明，例如期望的行为")
	fixCmd.Flags().BoolVar(&fixAdvanced, "advanced", false, "使用高级模式")
	fixCmd.Flags().StringVar(&fixLanguage, "language", "", "代码语言，仅用于日志")
}

func runFix(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	code, err := readSource(cmd, fixFile)
	if err != nil {
		return err
	}

	// 高级模式依赖本地用户状态判断会员有效期，先尽力加载一次
	if fixAdvanced {
		if _, err := appServices.Session.Refresh(ctx); err != nil {
			logger.Debug("加载用户信息失败，按普通模式处理")
		}
	}

	resp, err := appServices.Codefix.Correct(ctx, dto.CorrectionRequest{
		Code:       code,
		AddInfo:    fixInfo,
		IsAdvanced: fixAdvanced,
		Language:   fixLanguage,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "接口: %s\n", appServices.Codefix.Endpoint(fixAdvanced))
	fmt.Fprintf(out, "错误位置:\n%s\n\n", resp.ErrorLocation)
	fmt.Fprintf(out, "修正后的代码:\n%s\n\n", resp.CorrectCode)
	fmt.Fprintf(out, "相关知识:\n%s\n", resp.RelatedKnowledge)
	return nil
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取代码文件失败: %w", err)
	}
	return string(b), nil
}
