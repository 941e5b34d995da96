package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Xushengqwer/codefix_portal/constants"
	"github.com/Xushengqwer/codefix_portal/dependencies"
	"github.com/Xushengqwer/codefix_portal/models/dto"
	"github.com/Xushengqwer/codefix_portal/service/session"
	"github.com/Xushengqwer/codefix_portal/state"
)

var (
	captchaOut   string
	captchaColor string

	loginPhone       string
	loginCode        string
	loginCaptchaCode string
	loginCaptchaID   string
	pollInterval     time.Duration

	bindOpenID string
)

// captchaCmd 获取图形验证码
var captchaCmd = &cobra.Command{
	Use:   "captcha",
	Short: "获取图形验证码（发送短信前需要）",
	RunE:  runCaptcha,
}

// loginCmd 登录
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "登录门户",
	Long: `登录门户并保存令牌。

子命令:
  sms    - 发送短信验证码
  phone  - 手机号 + 短信验证码登录
  wechat - 公众号扫码登录
  token  - 直接使用已有令牌`,
}

var loginSmsCmd = &cobra.Command{
	Use:   "sms",
	Short: "发送短信验证码",
	RunE:  runLoginSms,
}

var loginPhoneCmd = &cobra.Command{
	Use:   "phone",
	Short: "手机号 + 短信验证码登录",
	RunE:  runLoginPhone,
}

var loginWechatCmd = &cobra.Command{
	Use:   "wechat",
	Short: "公众号扫码登录",
	Long: `申请二维码并等待扫码。

已绑定的微信直接登录；未绑定时输出 openId，
再用 "codefix bind --open-id <openId> --phone <手机号> --code <验证码>" 完成绑定。`,
	RunE: runLoginWechat,
}

var loginTokenCmd = &cobra.Command{
	Use:   "token <token>",
	Short: "使用已有令牌登录",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoginToken,
}

// bindCmd 扫码后绑定手机号
var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "为扫码得到的 openId 绑定手机号并登录",
	RunE:  runBind,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "查看当前登录用户与余额",
	RunE:  runWhoami,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "登出并清除本地令牌",
	RunE:  runLogout,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "查看本地令牌的签发与过期时间（不校验签名）",
	RunE:  runToken,
}

func init() {
	captchaCmd.Flags().StringVarP(&captchaOut, "out", "o", "captcha.svg", "验证码图片保存路径")
	captchaCmd.Flags().StringVar(&captchaColor, "color", "#000", "验证码前景色")

	loginSmsCmd.Flags().StringVar(&loginPhone, "phone", "", "手机号")
	loginSmsCmd.Flags().StringVar(&loginCaptchaCode, "captcha-code", "", "图形验证码")
	loginSmsCmd.Flags().StringVar(&loginCaptchaID, "captcha-id", "", "图形验证码ID")
	_ = loginSmsCmd.MarkFlagRequired("phone")
	_ = loginSmsCmd.MarkFlagRequired("captcha-code")

	loginPhoneCmd.Flags().StringVar(&loginPhone, "phone", "", "手机号")
	loginPhoneCmd.Flags().StringVar(&loginCode, "code", "", "短信验证码")
	loginPhoneCmd.Flags().StringVar(&loginCaptchaCode, "captcha-code", "", "图形验证码")
	loginPhoneCmd.Flags().StringVar(&loginCaptchaID, "captcha-id", "", "图形验证码ID")
	_ = loginPhoneCmd.MarkFlagRequired("phone")
	_ = loginPhoneCmd.MarkFlagRequired("code")

	loginWechatCmd.Flags().DurationVar(&pollInterval, "interval", constants.DefaultPollInterval, "轮询间隔")

	bindCmd.Flags().StringVar(&bindOpenID, "open-id", "", "扫码得到的 openId")
	bindCmd.Flags().StringVar(&loginPhone, "phone", "", "手机号")
	bindCmd.Flags().StringVar(&loginCode, "code", "", "短信验证码")
	_ = bindCmd.MarkFlagRequired("open-id")
	_ = bindCmd.MarkFlagRequired("phone")
	_ = bindCmd.MarkFlagRequired("code")

	loginCmd.AddCommand(loginSmsCmd, loginPhoneCmd, loginWechatCmd, loginTokenCmd)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func runCaptcha(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := appServices.Auth.FetchCaptcha(ctx, dto.CaptchaRequest{Color: captchaColor})
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	if env.Data == nil {
		return errors.New("后端未返回验证码")
	}
	if err := os.WriteFile(captchaOut, []byte(env.Data.SvgCode), 0o644); err != nil {
		return fmt.Errorf("保存验证码图片失败: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "验证码图片已保存到 %s\n", captchaOut)
	fmt.Fprintf(out, "captcha-id: %s\n", env.Data.Code)
	return nil
}

func runLoginSms(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := appServices.Auth.SendSms(ctx, dto.SendSmsParams{
		Phone:       loginPhone,
		CaptchaCode: loginCaptchaCode,
		CaptchaID:   optionalString(loginCaptchaID),
	})
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "短信验证码已发送")
	return nil
}

func runLoginPhone(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := appServices.Session.LoginByPhone(ctx, dto.LoginParams{
		Phone:       loginPhone,
		PhoneCode:   loginCode,
		CaptchaCode: loginCaptchaCode,
		CaptchaID:   optionalString(loginCaptchaID),
	})
	if err != nil {
		return err
	}
	printUser(cmd, st)
	return nil
}

func runLoginWechat(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	sceneEnv, err := appServices.Wechat.GetQRSceneStr(ctx)
	if err != nil {
		return err
	}
	if err := sceneEnv.Err(); err != nil {
		return err
	}
	if sceneEnv.Data == nil || *sceneEnv.Data == "" {
		return errors.New("后端未返回场景值")
	}
	sceneStr := *sceneEnv.Data

	qrEnv, err := appServices.Wechat.GetQRCode(ctx, sceneStr)
	if err != nil {
		return err
	}
	if err := qrEnv.Err(); err != nil {
		return err
	}
	if qrEnv.Data != nil {
		fmt.Fprintf(out, "请使用微信扫描二维码: %s\n", *qrEnv.Data)
	}
	fmt.Fprintf(out, "sceneStr: %s\n等待扫码...\n", sceneStr)

	st, err := appServices.Session.LoginByWechat(ctx, sceneStr, pollInterval)
	var bindErr *session.BindRequiredError
	if errors.As(err, &bindErr) {
		fmt.Fprintf(out, "该微信尚未绑定手机号，openId: %s\n", bindErr.OpenID)
		fmt.Fprintln(out, `请先 "codefix login sms" 获取验证码，再执行 "codefix bind --open-id <openId> --phone <手机号> --code <验证码>"`)
		return nil
	}
	if err != nil {
		return err
	}
	printUser(cmd, st)
	return nil
}

func runLoginToken(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := appServices.Session.LoginWithToken(ctx, args[0])
	if err != nil {
		return err
	}
	printUser(cmd, st)
	return nil
}

func runBind(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := appServices.Session.BindPhone(ctx, dto.BindPhoneParams{
		Phone:     loginPhone,
		PhoneCode: loginCode,
		OpenID:    bindOpenID,
	})
	if err != nil {
		return err
	}
	printUser(cmd, st)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	st, err := appServices.Session.Refresh(ctx)
	if err != nil {
		return err
	}
	printUser(cmd, st)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := appServices.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "已登出")
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	token, err := appDeps.Tokens.GetToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		fmt.Fprintln(out, "未登录")
		return nil
	}
	info, err := dependencies.InspectToken(token)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "subject:   %s\n", info.Subject)
	fmt.Fprintf(out, "issuer:    %s\n", info.Issuer)
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(out, "issued:    %s\n", info.IssuedAt.Format(time.DateTime))
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires:   %s\n", info.ExpiresAt.Format(time.DateTime))
	}
	if info.Expired(time.Now()) {
		fmt.Fprintln(out, "状态:      已过期，请重新登录")
	}
	return nil
}

func printUser(cmd *cobra.Command, st state.UserState) {
	out := cmd.OutOrStdout()
	if !st.LoggedIn() {
		fmt.Fprintln(out, "未登录")
		return
	}
	u := st.UserInfo
	fmt.Fprintf(out, "用户: %s (id=%d, phone=%s)\n", u.Username, u.ID, u.Phone)
	if b := st.UserBalance; b != nil {
		fmt.Fprintf(out, "模型3次数: %d  模型4次数: %d\n", b.Model3Count, b.Model4Count)
		if st.CodeFixMemberAt(time.Now()) {
			fmt.Fprintf(out, "代码纠错会员: 有效至 %s\n", *b.CodeExpirationDate)
		} else {
			fmt.Fprintln(out, "代码纠错会员: 未开通或已过期")
		}
	}
}
