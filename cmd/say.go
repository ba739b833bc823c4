package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rosechat/rosechat/internal/audio"
	"github.com/rosechat/rosechat/internal/credential"
	"github.com/rosechat/rosechat/internal/speech"
)

func handleSay(ctx context.Context, c *cli.Command) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("text is required")
	}

	synth, err := buildSynthesizer(ctx, c)
	if err != nil {
		return err
	}

	buf, err := synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to synthesize: %w", err)
	}

	if output := c.String("output"); output != "" {
		data, err := audio.EncodeWAV(buf)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Audio saved to %s\n", output)
		return nil
	}

	return playOnce(ctx, buf)
}

// playOnce plays a single buffer to completion on the default output.
func playOnce(ctx context.Context, buf *audio.Buffer) error {
	player := audio.NewPlayer(audio.NewOtoDevice(buf.SampleRate))
	defer player.Close()

	done := make(chan struct{})
	player.OnCompleted(func(string) { close(done) })

	if err := player.Play(buf, "say"); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		player.Stop()
		return ctx.Err()
	case <-time.After(buf.Duration() + 5*time.Second):
		player.Stop()
		return fmt.Errorf("playback did not finish in time")
	}
}

func handleVoices(ctx context.Context, c *cli.Command) error {
	synth, err := buildSynthesizer(ctx, c)
	if err != nil {
		return err
	}

	lister, ok := synth.(speech.VoiceLister)
	if !ok {
		return fmt.Errorf("provider '%s' does not support listing voices", synth.Name())
	}

	voices, err := lister.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}
	if len(voices) == 0 {
		fmt.Println("No voices available")
		return nil
	}

	fmt.Printf("Available voices for provider '%s':\n", synth.Name())
	for _, v := range voices {
		fmt.Printf("  - %s (%s) - %s\n", v.ID, v.Language, v.Description)
	}
	return nil
}

// buildSynthesizer assembles a provider from flags and stored credentials.
func buildSynthesizer(ctx context.Context, c *cli.Command) (speech.Synthesizer, error) {
	store, err := credential.NewStore()
	if err != nil {
		return nil, err
	}
	creds, err := store.Load()
	if err != nil {
		return nil, err
	}

	provider := c.String("provider")
	var apiKey string
	switch provider {
	case "", "gemini":
		apiKey = creds.GeminiAPIKey
	case "elevenlabs":
		apiKey = creds.ElevenLabsAPIKey
	}

	return speech.New(ctx, provider, speech.Config{
		APIKey: apiKey,
		Voice:  c.String("voice"),
		Region: c.String("region"),
	})
}
