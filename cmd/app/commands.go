package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/registry-auth/cmd/app/commands"
	"github.com/allisson/registry-auth/internal/app"
	"github.com/allisson/registry-auth/internal/config"
	"github.com/allisson/registry-auth/internal/digest"
)

func getCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server and the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "auth-method",
			Usage: "Show which authentication method the configuration selects",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunAuthMethod(
					ctx,
					container,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "digest",
			Usage: "Print the digest of a text, a file or stdin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "text",
					Aliases: []string{"t"},
					Usage:   "Text to hash",
				},
				&cli.StringFlag{
					Name:  "file",
					Usage: "File to hash",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   digest.SHA256Algorithm,
					Usage:   "Hash algorithm (sha256 or blake2b)",
				},
				&cli.StringFlag{
					Name:  "prefix",
					Usage: "Prefix prepended to the hex digest (defaults to '<algorithm>:')",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				var prefix *string
				if cmd.IsSet("prefix") {
					value := cmd.String("prefix")
					prefix = &value
				}

				return commands.RunDigest(
					ctx,
					container.Logger(),
					commands.DefaultIO(),
					commands.DigestInput{
						Text:    cmd.String("text"),
						HasText: cmd.IsSet("text"),
						File:    cmd.String("file"),
					},
					cmd.String("algorithm"),
					prefix,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "encrypt-password",
			Usage: "Encrypt the admin password with a KMS key for PASSWORD_CIPHERTEXT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (defaults to KMS_KEY_URI)",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password to encrypt (read from stdin when omitted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyURI := cmd.String("kms-key-uri")
				if keyURI == "" {
					keyURI = cfg.KMSKeyURI
				}

				return commands.RunEncryptPassword(
					ctx,
					container.PasswordCipher(),
					container.Logger(),
					commands.DefaultIO(),
					keyURI,
					cmd.String("password"),
				)
			},
		},
	}
}
