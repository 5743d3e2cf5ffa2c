package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"homeworkbot/internal/app"
	logx "homeworkbot/pkg/logx"
)

func main() {
	cliApp := &cli.App{
		Name:  "homeworkbot",
		Usage: "watch homework review status and report changes to Telegram",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to an optional JSON or YAML config file",
				EnvVars: []string{"HOMEWORKBOT_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file with PRACTICUM_TOKEN, TELEGRAM_TOKEN and TELEGRAM_CHAT_ID",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		logx.NewJSON(os.Stderr, "info").Fatal("homeworkbot stopped", logx.Err(err))
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.NewApp(app.Options{
		ConfigPath: c.String("config"),
		EnvFile:    c.String("env-file"),
		// an explicitly given env file must exist
		EnvFileRequired: c.IsSet("env-file"),
	})
	if err != nil {
		return err
	}
	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
