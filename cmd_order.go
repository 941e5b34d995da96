package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/models/enums"
	"github.com/Xushengqwer/codefix_portal/models/vo"
)

var (
	buyGoodsID  int
	buyPlatform string
	buyPayEnv   string
	buyWait     bool
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "列出在售套餐",
	RunE:  runPackages,
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "下单与查单",
}

var orderBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "购买套餐，输出支付二维码",
	RunE:  runOrderBuy,
}

var orderQueryCmd = &cobra.Command{
	Use:   "query <orderId>",
	Short: "查询订单状态",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderQuery,
}

var orderWaitCmd = &cobra.Command{
	Use:   "wait <orderId>",
	Short: "等待订单支付完成并刷新余额",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderWait,
}

func init() {
	orderBuyCmd.Flags().IntVar(&buyGoodsID, "goods-id", 0, "套餐ID（见 codefix packages）")
	orderBuyCmd.Flags().StringVar(&buyPlatform, "pay", string(enums.PlatformAlipay), "支付平台: alipay 或 wechat")
	orderBuyCmd.Flags().StringVar(&buyPayEnv, "pay-env", "", "支付环境，可选")
	orderBuyCmd.Flags().BoolVar(&buyWait, "wait", false, "下单后等待支付完成")
	orderBuyCmd.Flags().DurationVar(&pollInterval, "interval", constants.DefaultPollInterval, "轮询间隔")
	_ = orderBuyCmd.MarkFlagRequired("goods-id")

	orderWaitCmd.Flags().DurationVar(&pollInterval, "interval", constants.DefaultPollInterval, "轮询间隔")

	orderCmd.AddCommand(orderBuyCmd, orderQueryCmd, orderWaitCmd)
}

func runPackages(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, err := appServices.Session.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if result.ProfileErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "用户信息加载失败: %v\n", result.ProfileErr)
	}
	out := cmd.OutOrStdout()
	if len(result.Packages) == 0 {
		fmt.Fprintln(out, "暂无在售套餐")
		return nil
	}
	for _, p := range result.Packages {
		fmt.Fprintf(out, "%-4d %-10s ￥%-8.2f (原价 ￥%.2f)  %d 天  %s\n", p.ID, p.Name, p.Price, p.OriginalPrice, p.Days, p.Des)
	}
	return nil
}

func runOrderBuy(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	result, err := appServices.Session.Bootstrap(ctx)
	if err != nil {
		return err
	}
	pkg, ok := findPackage(result.Packages, buyGoodsID)
	if !ok {
		return fmt.Errorf("套餐 %d 不存在或已下架", buyGoodsID)
	}

	order, err := appServices.Session.Checkout(ctx, pkg, enums.PayPlatform(buyPlatform), buyPayEnv)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "订单号: %s\n支付二维码: %s\n", order.OrderID, order.URLQRCode)
	if order.RedirectURL != "" {
		fmt.Fprintf(out, "跳转地址: %s\n", order.RedirectURL)
	}
	if !buyWait {
		return nil
	}

	fmt.Fprintln(out, "等待支付...")
	return waitAndReport(cmd, order.OrderID)
}

func runOrderQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := appServices.Payment.QueryOrder(ctx, args[0])
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	if env.Data == nil {
		return errors.New("后端未返回订单信息")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "订单号: %s 状态: %s\n", env.Data.OrderID, statusText(env.Data.Status))
	return nil
}

func runOrderWait(cmd *cobra.Command, args []string) error {
	return waitAndReport(cmd, args[0])
}

func waitAndReport(cmd *cobra.Command, orderID string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	order, err := appServices.Session.CompleteCheckout(ctx, orderID, pollInterval)
	if order != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "订单号: %s 状态: %s\n", order.OrderID, statusText(order.Status))
	}
	if err != nil {
		return err
	}
	printUser(cmd, appServices.Users.Snapshot())
	return nil
}

func findPackage(pkgs []vo.Package, id int) (vo.Package, bool) {
	for _, p := range pkgs {
		if p.ID == id {
			return p, true
		}
	}
	return vo.Package{}, false
}

func statusText(s enums.OrderStatus) string {
	switch s {
	case enums.OrderUnpaid:
		return "待支付"
	case enums.OrderPaid:
		return "已支付"
	default:
		return fmt.Sprintf("未知(%d)", int(s))
	}
}
