package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rosechat/rosechat/internal/credential"
)

func handleAuthSet(ctx context.Context, c *cli.Command) error {
	key := strings.TrimSpace(c.Args().Get(0))
	if key == "" {
		return fmt.Errorf("API key is required")
	}

	store, err := credential.NewStore()
	if err != nil {
		return err
	}
	creds, err := store.Load()
	if err != nil {
		return err
	}

	creds.GeminiAPIKey = key
	if err := store.Save(creds); err != nil {
		return err
	}

	fmt.Printf("Saved credentials to %s\n", store.Path())
	return nil
}

func handleAuthShow(ctx context.Context, c *cli.Command) error {
	store, err := credential.NewStore()
	if err != nil {
		return err
	}
	creds, err := store.Load()
	if err != nil {
		return err
	}

	fmt.Printf("Credential file: %s\n", store.Path())
	fmt.Printf("  Gemini API key:     %s\n", credential.Mask(creds.GeminiAPIKey))
	fmt.Printf("  ElevenLabs API key: %s\n", credential.Mask(creds.ElevenLabsAPIKey))
	return nil
}

func handleAuthClear(ctx context.Context, c *cli.Command) error {
	store, err := credential.NewStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Credentials cleared")
	return nil
}
