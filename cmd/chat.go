package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/rosechat/rosechat/internal/audio"
	"github.com/rosechat/rosechat/internal/chat"
	"github.com/rosechat/rosechat/internal/credential"
	"github.com/rosechat/rosechat/internal/llm"
	"github.com/rosechat/rosechat/internal/speech"
	"github.com/rosechat/rosechat/internal/ui"
)

// pollInterval paces the wait for the turn pipeline to finish before the
// next input prompt.
const pollInterval = 50 * time.Millisecond

func handleChat(ctx context.Context, c *cli.Command) error {
	store, err := credential.NewStore()
	if err != nil {
		return err
	}
	creds, err := store.Load()
	if err != nil {
		return err
	}

	stdin := bufio.NewScanner(os.Stdin)
	if creds.GeminiAPIKey == "" {
		fmt.Print("Gemini API key: ")
		if !stdin.Scan() {
			return fmt.Errorf("no API key provided")
		}
		creds.GeminiAPIKey = strings.TrimSpace(stdin.Text())
		if creds.GeminiAPIKey == "" {
			return fmt.Errorf("no API key provided")
		}
		if err := store.Save(creds); err != nil {
			return err
		}
		fmt.Printf("Saved to %s\n", store.Path())
	}

	synth, err := speech.New(ctx, c.String("provider"), speech.Config{
		APIKey: creds.GeminiAPIKey,
		Voice:  c.String("voice"),
	})
	if err != nil {
		return err
	}

	gen := llm.NewGeminiGenerator(creds.GeminiAPIKey)
	player := audio.NewPlayer(audio.NewOtoDevice(audio.DefaultSampleRate))
	defer func() {
		if err := player.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close audio output")
		}
	}()

	conversation := chat.NewLog()
	orchestrator := chat.New(conversation, gen, synth, player)
	renderer := ui.NewRenderer(os.Stdout)

	orchestrator.SetNotify(func(e chat.Event) {
		switch e.Kind {
		case chat.EventMessageAppended:
			msg, err := conversation.Get(e.MessageID)
			if err != nil {
				return
			}
			if msg.Sender == chat.SenderPersona {
				renderer.Message(indexOf(conversation, e.MessageID), msg)
			}
		case chat.EventAudioAttached:
			msg, err := conversation.Get(e.MessageID)
			if err != nil {
				return
			}
			renderer.VoiceNote(indexOf(conversation, e.MessageID), msg)
		case chat.EventPhaseChanged:
			renderer.Status(e.Phase)
		}
	})

	fmt.Println("Talking to Rose. Commands: /play <n>, /stop, /quit")

	if !c.Bool("no-greeting") {
		if err := orchestrator.Greet(ctx); err != nil {
			return err
		}
		waitForTurn(ctx, orchestrator)
	}

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			orchestrator.Stop()
			return stdin.Err()
		}
		line := strings.TrimSpace(stdin.Text())

		switch {
		case line == "":
			continue

		case line == "/quit":
			orchestrator.Stop()
			return nil

		case line == "/stop":
			orchestrator.Stop()

		case strings.HasPrefix(line, "/play"):
			arg := strings.TrimSpace(strings.TrimPrefix(line, "/play"))
			index, err := strconv.Atoi(arg)
			if err != nil {
				renderer.Notice("Usage: /play <message number>")
				continue
			}
			if err := playByIndex(orchestrator, conversation, index); err != nil {
				renderer.Notice("Cannot play [%d]: %v", index, err)
			}

		default:
			if err := orchestrator.HandleSend(ctx, line); err != nil {
				if err == chat.ErrBusy {
					renderer.Notice("Rose is still busy, wait a moment (or /stop)")
					continue
				}
				return err
			}
			waitForTurn(ctx, orchestrator)
		}
	}
}

// waitForTurn blocks until the pipeline leaves the API-call phases. Playback
// is not waited on: the user may type /stop or the next message while the
// voice note sounds.
func waitForTurn(ctx context.Context, o *chat.Orchestrator) {
	for {
		switch o.Phase() {
		case chat.PhaseAwaitingText, chat.PhaseAwaitingAudio:
		default:
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(pollInterval):
		}
	}
}

func playByIndex(o *chat.Orchestrator, conversation *chat.Log, index int) error {
	messages := conversation.Messages()
	if index < 0 || index >= len(messages) {
		return fmt.Errorf("no such message")
	}
	return o.TogglePlayback(messages[index].ID)
}

func indexOf(conversation *chat.Log, id string) int {
	for i, m := range conversation.Messages() {
		if m.ID == id {
			return i
		}
	}
	return -1
}
