package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"TopicChat/internal/engine"
	"TopicChat/internal/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat view",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.store.IsLoggedIn() {
			return fmt.Errorf("not logged in — run 'topicchat login' first")
		}

		user, _ := current.store.User()
		if user.Role == model.RoleAdmin {
			fmt.Println("Admin accounts manage the catalog instead: run 'topicchat admin'.")
			return nil
		}

		eng := engine.New(current.client, user, current.logger)
		if err := eng.Init(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load chat view: %w", err)
		}

		view := &chatView{eng: eng}
		return view.run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chatView is the interactive loop over the consistency engine
type chatView struct {
	eng *engine.Engine
}

func (v *chatView) run(ctx context.Context) error {
	fmt.Println("=== TopicChat ===")
	v.printChats()
	fmt.Println("Type /help for commands, /quit to exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := v.handleCommand(ctx, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		v.send(ctx, input)
	}

	fmt.Println("Goodbye!")
	return nil
}

// send submits a question and prints the answer. The input line is already
// consumed; a failed send keeps the question pending so /retry can resend it
// instead of the text being lost.
func (v *chatView) send(ctx context.Context, text string) {
	if _, ok := v.eng.ActiveChat(); !ok {
		fmt.Println("No chat open. Use /new <topic-id> or /open <chat-id> first.")
		return
	}

	_, err := v.eng.SendQuestion(ctx, text)
	if err != nil {
		if errors.Is(err, engine.ErrBusy) {
			fmt.Println("Still waiting on the previous question for this chat.")
			return
		}
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Your question was kept. Use /retry to resend it or /pending to review.")
		return
	}

	qas := v.eng.Transcript()
	if len(qas) > 0 {
		printAnswer(qas[len(qas)-1])
	}
}

func (v *chatView) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/topics":
		topics := v.eng.AvailableTopics()
		if len(topics) == 0 {
			fmt.Println("No topics left to start a chat against.")
			return false, nil
		}
		fmt.Println("\nAvailable topics:")
		for _, t := range topics {
			fmt.Printf("  %d. %s\n", t.ID, t.Name)
		}
		fmt.Println()
		return false, nil

	case "/new":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /new <topic-id>")
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid topic id: %s", parts[1])
		}
		var topic model.TopicDetails
		for _, t := range v.eng.AvailableTopics() {
			if t.ID == id {
				topic = t
				break
			}
		}
		if topic.ID == 0 {
			return false, fmt.Errorf("topic %d is not available (see /topics)", id)
		}
		if err := v.eng.CreateChat(ctx, topic); err != nil {
			return false, err
		}
		fmt.Printf("Started a new chat on %q. Ask away.\n", topic.Name)
		return false, nil

	case "/chats":
		v.printChats()
		return false, nil

	case "/open":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /open <chat-id>")
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid chat id: %s", parts[1])
		}
		var chat model.ChatDetails
		for _, c := range v.eng.Chats() {
			if c.ID == id {
				chat = c
				break
			}
		}
		if chat.ID == 0 {
			return false, fmt.Errorf("no chat %d (see /chats)", id)
		}
		if err := v.eng.SelectChat(ctx, chat); err != nil {
			return false, err
		}
		v.printTranscript()
		return false, nil

	case "/delete":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /delete <chat-id>")
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid chat id: %s", parts[1])
		}
		var chat model.ChatDetails
		for _, c := range v.eng.Chats() {
			if c.ID == id {
				chat = c
				break
			}
		}
		if chat.ID == 0 {
			return false, fmt.Errorf("no chat %d (see /chats)", id)
		}
		if !confirm(fmt.Sprintf("Delete chat %d (%s)?", chat.ID, chat.Topic.Name)) {
			fmt.Println("Cancelled.")
			return false, nil
		}
		if err := v.eng.DeleteChat(ctx, chat); err != nil {
			return false, err
		}
		fmt.Printf("Deleted chat %d. Topic %q is available again.\n", chat.ID, chat.Topic.Name)
		return false, nil

	case "/pending":
		pending := v.eng.PendingQuestions()
		if len(pending) == 0 {
			fmt.Println("No pending questions.")
			return false, nil
		}
		fmt.Println("\nPending questions:")
		for _, p := range pending {
			state := "in flight"
			if p.Failed {
				state = "failed"
			}
			fmt.Printf("  %s [%s] %s\n", shortID(p.ID), state, p.Question)
		}
		fmt.Println()
		return false, nil

	case "/retry":
		p, err := v.findFailed(parts)
		if err != nil {
			return false, err
		}
		if err := v.eng.RetryQuestion(ctx, p.ID); err != nil {
			return false, err
		}
		qas := v.eng.Transcript()
		if len(qas) > 0 {
			printAnswer(qas[len(qas)-1])
		}
		return false, nil

	case "/discard":
		p, err := v.findFailed(parts)
		if err != nil {
			return false, err
		}
		v.eng.DiscardQuestion(p.ID)
		fmt.Println("Discarded.")
		return false, nil

	case "/help":
		fmt.Println("Available commands:")
		fmt.Println("  /topics              - List topics you can still start a chat against")
		fmt.Println("  /new <topic-id>      - Start a chat on a topic")
		fmt.Println("  /chats               - List your chats")
		fmt.Println("  /open <chat-id>      - Open a chat and show its transcript")
		fmt.Println("  /delete <chat-id>    - Delete a chat (its topic becomes available again)")
		fmt.Println("  /pending             - Show questions not yet accepted by the backend")
		fmt.Println("  /retry [id]          - Resend a failed question")
		fmt.Println("  /discard [id]        - Drop a failed question")
		fmt.Println("  /quit, /exit         - Leave the chat view")
		fmt.Println("  /help                - Show this help message")
		return false, nil

	default:
		return false, nil
	}
}

// findFailed resolves the /retry and /discard target: an explicit id prefix,
// or the most recent failed question when none is given.
func (v *chatView) findFailed(parts []string) (engine.PendingQuestion, error) {
	pending := v.eng.PendingQuestions()

	if len(parts) >= 2 {
		for _, p := range pending {
			if p.Failed && strings.HasPrefix(p.ID, parts[1]) {
				return p, nil
			}
		}
		return engine.PendingQuestion{}, fmt.Errorf("no failed question matching %q (see /pending)", parts[1])
	}

	for i := len(pending) - 1; i >= 0; i-- {
		if pending[i].Failed {
			return pending[i], nil
		}
	}
	return engine.PendingQuestion{}, fmt.Errorf("no failed questions to act on")
}

func (v *chatView) printChats() {
	chats := v.eng.Chats()
	if len(chats) == 0 {
		fmt.Println("You have no chats yet. Use /topics and /new to start one.")
		return
	}
	fmt.Println("Your chats:")
	for _, c := range chats {
		fmt.Printf("  %d. %s\n", c.ID, c.Topic.Name)
	}
}

func (v *chatView) printTranscript() {
	chat, ok := v.eng.ActiveChat()
	if !ok {
		return
	}
	fmt.Printf("\n--- %s ---\n", chat.Topic.Name)
	for _, qa := range v.eng.Transcript() {
		fmt.Printf("You: %s\n", qa.Question)
		printAnswer(qa)
	}
	fmt.Println()
}

func printAnswer(qa model.QA) {
	if qa.ASource != "" && qa.ASource != model.SourceNA {
		fmt.Printf("Bot [%s]: %s\n\n", qa.ASource, qa.Answer)
		return
	}
	fmt.Printf("Bot: %s\n\n", qa.Answer)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
