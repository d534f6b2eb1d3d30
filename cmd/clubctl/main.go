package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/forgo/clubhouse/api/internal/config"
	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/forgo/clubhouse/api/internal/model"
	"github.com/forgo/clubhouse/api/internal/repository"
	"github.com/forgo/clubhouse/api/internal/service"
	"github.com/forgo/clubhouse/api/migrations"
	"github.com/forgo/clubhouse/api/pkg/jwt"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app := &cli.App{
		Name:  "clubctl",
		Usage: "operate a Clubhouse API deployment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "load configuration from this .env file",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			userCommand(),
			tokenCommand(),
			keysCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	return config.Load(files...)
}

// withDatabase connects using the loaded configuration and closes afterwards
func withDatabase(c *cli.Context, fn func(ctx context.Context, db database.Database) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	ctx, cancel := context.WithTimeout(c.Context, time.Minute)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, db)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the embedded SurrealQL schema",
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(ctx context.Context, db database.Database) error {
				if err := migrations.Apply(ctx, db); err != nil {
					return err
				}
				fmt.Println("Schema is up to date")
				return nil
			})
		},
	}
}

func userCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "manage accounts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "register a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"CLUBCTL_PASSWORD"}},
					&cli.StringSliceFlag{Name: "role", Usage: "user, moderator or admin (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					req := &model.CreateUserRequest{
						Name:     c.String("name"),
						Email:    c.String("email"),
						Username: c.String("username"),
						Password: c.String("password"),
					}
					for _, r := range c.StringSlice("role") {
						req.Roles = append(req.Roles, model.UserRole(r))
					}

					return withDatabase(c, func(ctx context.Context, db database.Database) error {
						svc := service.NewUserService(repository.NewUserRepository(db), nil)
						user, err := svc.Register(ctx, req)
						if err != nil {
							return err
						}
						fmt.Printf("Created %s (%s) with roles %v\n", user.ID, user.Username, user.Roles)
						return nil
					})
				},
			},
			{
				Name:      "disable",
				Usage:     "disable an account; club deletion leaves its memberships alone",
				ArgsUsage: "<user-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "re-enable instead"},
				},
				Action: func(c *cli.Context) error {
					userID := c.Args().First()
					if userID == "" {
						return cli.Exit("user id required", 2)
					}
					return withDatabase(c, func(ctx context.Context, db database.Database) error {
						svc := service.NewUserService(repository.NewUserRepository(db), nil)
						if err := svc.SetDisabled(ctx, userID, !c.Bool("undo")); err != nil {
							return err
						}
						fmt.Printf("Updated %s\n", userID)
						return nil
					})
				},
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "sign a bearer token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Usage: "private key path (default: JWT_PRIVATE_KEY_PATH)"},
			&cli.StringFlag{Name: "user", Value: "user:admin"},
			&cli.StringFlag{Name: "email", Value: "admin@clubhouse.dev"},
			&cli.StringFlag{Name: "username", Value: "admin"},
			&cli.StringSliceFlag{Name: "role", Value: cli.NewStringSlice("user", "admin")},
			&cli.IntFlag{Name: "exp", Value: 60 * 24 * 7, Usage: "expiration in minutes"},
			&cli.BoolFlag{Name: "json", Usage: "output as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			keyPath := c.String("key")
			if keyPath == "" {
				keyPath = cfg.JWT.PrivateKeyPath
			}

			jwtService, err := jwt.NewService(jwt.Config{
				PrivateKeyPath: keyPath,
				Issuer:         cfg.JWT.Issuer,
				ExpirationMins: c.Int("exp"),
			})
			if err != nil {
				return fmt.Errorf("%w (generate keys with: clubctl keys)", err)
			}

			roles := c.StringSlice("role")
			for _, r := range roles {
				if !model.UserRole(r).IsValid() {
					return fmt.Errorf("unknown role %q", r)
				}
			}

			token, err := jwtService.Sign(jwt.Claims{
				UserID:   c.String("user"),
				Email:    c.String("email"),
				Username: c.String("username"),
				Roles:    roles,
			})
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"access_token": token,
					"token_type":   "Bearer",
					"expires_in":   c.Int("exp") * 60,
					"user_id":      c.String("user"),
					"roles":        roles,
				})
			}
			fmt.Println(token)
			return nil
		},
	}
}

func keysCommand() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "generate an RSA key pair for token signing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "private", Value: "./keys/private.pem"},
			&cli.StringFlag{Name: "public", Value: "./keys/public.pem"},
		},
		Action: func(c *cli.Context) error {
			if err := jwt.GenerateKeyPair(c.String("private"), c.String("public")); err != nil {
				return err
			}
			fmt.Printf("Wrote %s and %s\n", c.String("private"), c.String("public"))
			return nil
		},
	}
}
