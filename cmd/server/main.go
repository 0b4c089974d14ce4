package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/dujiao-next/order-desk/internal/app"
	"github.com/dujiao-next/order-desk/internal/config"
	"github.com/dujiao-next/order-desk/internal/logger"
	"github.com/dujiao-next/order-desk/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

// 默认管理员从环境变量读取，仅在账号表为空时生效
const (
	envDefaultAdminUser = "OD_DEFAULT_ADMIN_USERNAME"
	envDefaultAdminPass = "OD_DEFAULT_ADMIN_PASSWORD"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "启动模式: all | api | worker")
	flag.Parse()

	printStartupBanner()
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, *mode, logger.StdLogger()); err != nil {
		logger.StdLogger().Fatalf("服务运行失败: %v", err)
	}
}

func run(cfg *config.Config, rawMode string, stdLog *log.Logger) error {
	mode, err := app.ParseMode(rawMode)
	if err != nil {
		return err
	}
	release := cfg.Server.Mode == "release"
	if weakSecret(cfg.JWT.SecretKey) {
		if release {
			return fmt.Errorf("jwt secret is weak or still the default value")
		}
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，生产环境请更换")
	}
	if release {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := models.InitDB(cfg.Database.ToDBOptions(!release)); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	ensureDefaultAdmin(release, stdLog)

	return app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	})
}

func ensureDefaultAdmin(release bool, stdLog *log.Logger) {
	username := os.Getenv(envDefaultAdminUser)
	password := os.Getenv(envDefaultAdminPass)
	if release && password == "" {
		stdLog.Printf("警告: 未设置 %s，跳过默认管理员初始化", envDefaultAdminPass)
		return
	}
	if err := models.InitDefaultAdmin(username, password); err != nil {
		stdLog.Printf("警告: 初始化默认管理员失败: %v", err)
	}
}

// weakSecret 长度不足 32 或仍是示例值
func weakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	lower := strings.ToLower(secret)
	for _, marker := range []string{"change-me", "change-in-production", "your-secret-key"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func printStartupBanner() {
	lines := []string{
		" ██████╗ ██████╗ ██████╗ ███████╗██████╗     ██████╗ ███████╗███████╗██╗  ██╗",
		"██╔═══██╗██╔══██╗██╔══██╗██╔════╝██╔══██╗    ██╔══██╗██╔════╝██╔════╝██║ ██╔╝",
		"██║   ██║██████╔╝██║  ██║█████╗  ██████╔╝    ██║  ██║█████╗  ███████╗█████╔╝ ",
		"██║   ██║██╔══██╗██║  ██║██╔══╝  ██╔══██╗    ██║  ██║██╔══╝  ╚════██║██╔═██╗ ",
		"╚██████╔╝██║  ██║██████╔╝███████╗██║  ██║    ██████╔╝███████╗███████║██║  ██╗",
		" ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚══════╝╚═╝  ╚═╝    ╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝",
	}
	for _, line := range lines {
		fmt.Println(ansiCyan + line + ansiReset)
	}
	fmt.Println(ansiGreen + ansiBold + "后台录单服务：多草稿并行录入、实时汇总、提交入库" + ansiReset)
	fmt.Println(ansiDim + "模式 -mode=all|api|worker，默认管理员 " + envDefaultAdminUser + " / " + envDefaultAdminPass + ansiReset)
}
