package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "rosechat",
		Usage: "Chat with Rose - a voice companion powered by Gemini",
		Description: `rosechat runs an interactive conversation with Rose, a Hinglish-speaking
persona. Every reply arrives as text plus a voice note synthesized with
Gemini TTS and played through the default audio output.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "chat",
				Usage:   "Start an interactive voice chat session",
				Action:  handleChat,
				Aliases: []string{"c"},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "TTS provider: gemini, elevenlabs, gcp",
						Value: "gemini",
					},
					&cli.StringFlag{
						Name:  "voice",
						Usage: "Voice ID or name (provider-specific)",
					},
					&cli.BoolFlag{
						Name:  "no-greeting",
						Usage: "Skip the opening greeting",
					},
				},
			},
			{
				Name:      "say",
				Usage:     "Synthesize a single line and play it (or save with -o)",
				Action:    handleSay,
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "TTS provider: gemini, elevenlabs, gcp, polly",
						Value: "gemini",
					},
					&cli.StringFlag{
						Name:  "voice",
						Usage: "Voice ID or name (provider-specific)",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "AWS region for Polly",
						Value: "us-east-1",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write a WAV file instead of playing",
					},
				},
			},
			{
				Name:   "voices",
				Usage:  "List available voices for a provider",
				Action: handleVoices,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "TTS provider: elevenlabs, gcp, polly",
						Value: "elevenlabs",
					},
					&cli.StringFlag{
						Name:  "region",
						Usage: "AWS region for Polly",
						Value: "us-east-1",
					},
				},
			},
			{
				Name:  "auth",
				Usage: "Manage stored API credentials",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Store the Gemini API key",
						Action:    handleAuthSet,
						ArgsUsage: "<api-key>",
					},
					{
						Name:   "show",
						Usage:  "Show the stored credentials (masked)",
						Action: handleAuthShow,
					},
					{
						Name:   "clear",
						Usage:  "Remove stored credentials",
						Action: handleAuthClear,
					},
				},
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}
