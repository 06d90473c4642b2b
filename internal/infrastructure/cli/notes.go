// Package cli - notes.go manages the personal note list.
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cmdNotes() *cli.Command {
	return &cli.Command{
		Name:  "notes",
		Usage: "Manage your notes",
		Commands: []*cli.Command{
			cmdNotesList(),
			cmdNotesAdd(),
			cmdNotesRm(),
		},
	}
}

func cmdNotesList() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all notes",
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			notes, err := a.notes.List(ctx)
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Println("No notes found. Add one: neurosync notes add")
				return nil
			}
			for _, n := range notes {
				marker := " "
				if n.Important {
					marker = "!"
				}
				fmt.Printf("%s %s  %s\n    %s\n", marker, n.ID, n.Title, n.Desc)
			}
			return nil
		},
	}
}

func cmdNotesAdd() *cli.Command {
	var title, desc string
	var important bool
	return &cli.Command{
		Name:  "add",
		Usage: "Create a note",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "note title",
				Destination: &title,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "desc",
				Aliases:     []string{"d"},
				Usage:       "note body",
				Destination: &desc,
			},
			&cli.BoolFlag{
				Name:        "important",
				Aliases:     []string{"i"},
				Usage:       "mark the note important",
				Destination: &important,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			a.restore(ctx)
			note, err := a.notes.Create(ctx, title, desc, important)
			if err != nil {
				return err
			}
			okText.Printf("Created note %s\n", note.ID)
			return nil
		},
	}
}

func cmdNotesRm() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a note",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.cleanup()

			id := c.Args().First()
			if id == "" {
				return cli.Exit("usage: neurosync notes rm <id>", 2)
			}

			a.restore(ctx)
			if err := a.notes.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}
