package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"timesheet-summary/src/pkg/config"
	echomw "timesheet-summary/src/pkg/echo-middleware"
	"timesheet-summary/src/pkg/email"
	"timesheet-summary/src/pkg/timesheet"
	"timesheet-summary/src/pkg/web"
)

/*
main starts the upload server.

Routes:

	GET  /                 upload form
	GET  /healthz          liveness probe
	POST /upload_timesheet multipart upload, summarize, email
*/
func main() {
	_ = godotenv.Load()
	email.CheckProviderEnvVars()

	// common flags
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// parse and init config
	flag.Parse()
	config.InitializeConfig(*configPath)

	initializePackageConfigs()

	handler := &web.UploadHandler{
		Sender:           email.SenderFromConfig(),
		DefaultRecipient: email.Cfg.DefaultRecipient,
		Policy:           timesheet.Policy(),
	}

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(echomw.RouteAccessLoggerMiddleware)
	server.Use(echomw.RateLimiterMiddleware)
	server.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dM", echomw.Cfg.UploadLimitMB)))

	server.GET("/", handler.Home)
	server.GET("/healthz", web.Healthz)

	uploadMiddlewares := make([]echo.MiddlewareFunc, 0, 1)
	if echomw.BearerTokenConfigured() {
		uploadMiddlewares = append(uploadMiddlewares, echomw.RequireBearerToken)
		tl.Log(tl.Info, palette.Cyan, "%s is set, upload route requires a bearer token", echomw.EnvUploadBearerToken)
	}
	server.POST("/upload_timesheet", handler.UploadTimesheet, uploadMiddlewares...)

	address := fmt.Sprintf("%s:%d", echomw.Cfg.Address, echomw.Cfg.Port)
	tl.Log(
		tl.Notice, palette.BlueBold, "%s timesheet summary server on '%s'",
		"Starting", address,
	)

	startErr := server.Start(address)
	xerr.QuitIfError(startErr, "Unable to start HTTP server")
}

/*
initializePackageConfigs hands each package its config section. Absent
sections keep package defaults.
*/
func initializePackageConfigs() {
	var middlewareConfig echomw.Config
	if config.DecodeSection("echo-middleware", &middlewareConfig) {
		echomw.InitializeConfig(&middlewareConfig)
	} else {
		echomw.InitializeConfig(nil)
	}
	echomw.UpdateRateLimits(echomw.Cfg.MiddlewareRateLimit, echomw.Cfg.MiddlewareBurst)

	var emailConfig email.Config
	if config.DecodeSection("email", &emailConfig) {
		email.InitializeConfig(&emailConfig)
	} else {
		email.InitializeConfig(nil)
	}

	var timesheetConfig timesheet.Config
	if config.DecodeSection("timesheet", &timesheetConfig) {
		timesheet.InitializeConfig(&timesheetConfig)
	} else {
		timesheet.InitializeConfig(nil)
	}
}
