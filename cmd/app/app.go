package main

import (
	"context"
	"fmt"
	"os"

	"github.com/DRSN-tech/calories-backend/internal/app"
	config "github.com/DRSN-tech/calories-backend/internal/cfg"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/urfave/cli/v3"
)

//	@title						Calories API
//	@version					1.0
//	@description				Каталог продуктов, журнал питания и подсчёт калорий по дням.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				"Bearer <access token>"
func main() {
	// До загрузки .env уровень берётся из окружения процесса.
	log := logger.MustZapLogger(os.Getenv("LOG_LEVEL"))
	defer log.Sync()

	cmd := &cli.Command{
		Name:  "calories",
		Usage: "Calories backend",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run HTTP and gRPC servers with the outbox worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return serve(log)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations and exit",
				Action: func(ctx context.Context, _ *cli.Command) error {
					dbCfg, err := config.LoadDB(log)
					if err != nil {
						return err
					}
					if err := app.Migrate(ctx, dbCfg, log); err != nil {
						return err
					}
					log.Infof("Migration complete")
					return nil
				},
			},
			{
				Name:  "create-admin",
				Usage: "Create a staff user who manages the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "password", Sources: cli.EnvVars("ADMIN_PASSWORD"), Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					dbCfg, err := config.LoadDB(log)
					if err != nil {
						return err
					}
					err = app.CreateAdmin(ctx, dbCfg, log, &usecase.RegisterReq{
						Username: c.String("username"),
						Email:    c.String("email"),
						Password: c.String("password"),
					})
					if err != nil {
						return err
					}
					log.Infof("Admin %q created", c.String("username"))
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Errorf(err, "command failed")
		os.Exit(1)
	}
}

func serve(bootLog *logger.ZapLogger) error {
	cfg, err := config.Load(bootLog)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	return application.Run()
}
