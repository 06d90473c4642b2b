// Package cli - chat.go is the interactive conversation loop.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

func cmdChat() *cli.Command {
	var fileID string
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with one of your uploaded documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file-id",
				Aliases:     []string{"f"},
				Usage:       "document to chat with (prompts when omitted)",
				Destination: &fileID,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			docs, err := a.store.RefreshDocuments(ctx)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				noticeText.Println("No documents yet. Upload one first: neurosync upload <path>")
				return nil
			}

			in := bufio.NewScanner(os.Stdin)

			id := fileID
			if id == "" {
				id, err = pickDocument(in, docs)
				if err != nil {
					return err
				}
			}
			if err := a.store.Select(id); err != nil {
				return err
			}

			thread, _ := a.store.ActiveThread()
			botText.Printf("Chatting with %s. Ask a question! (empty line or Ctrl-D to quit)\n", docName(docs, thread.DocumentID))

			for {
				fmt.Print("> ")
				if !in.Scan() {
					break
				}
				question := strings.TrimSpace(in.Text())
				if question == "" {
					break
				}

				answer, err := a.coordinator.Ask(ctx, question)
				if err != nil {
					if errors.Is(err, entities.ErrBusy) {
						noticeText.Println("Still waiting for the previous answer.")
						continue
					}
					// The transcript already carries the synthetic error
					// turn; render it the same way.
					errText.Println("Error:", err.Error())
					continue
				}
				botText.Println(answer)
			}
			return in.Err()
		},
	}
}

// pickDocument prompts the user to choose from the known document list.
func pickDocument(in *bufio.Scanner, docs []entities.Document) (string, error) {
	printDocuments(docs)
	fmt.Print("Chat with which document? ")
	if !in.Scan() {
		return "", fmt.Errorf("no selection made")
	}
	choice := strings.TrimSpace(in.Text())
	if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= len(docs) {
		return docs[n-1].ID, nil
	}
	// Also accept a raw file id.
	for _, d := range docs {
		if d.ID == choice {
			return d.ID, nil
		}
	}
	return "", entities.ErrNotFound
}

func docName(docs []entities.Document, id string) string {
	for _, d := range docs {
		if d.ID == id {
			return d.Filename
		}
	}
	return id
}
