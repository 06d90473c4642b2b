// Package backend - notes.go implements ports.NoteService.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/patrickmn/go-cache"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

// noteDTO is the wire form of a note.
type noteDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	Important bool   `json:"important"`
}

// createNoteRequest is the note creation payload.
type createNoteRequest struct {
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	Important bool   `json:"important"`
}

// ListNotes returns all notes belonging to the token's user.
func (c *Client) ListNotes(ctx context.Context, token string) ([]entities.Note, error) {
	key := noteListCacheKey + "|" + token
	if cached, found := c.lists.Get(key); found {
		return cached.([]entities.Note), nil
	}

	req, err := c.newRequest(ctx, "GET", "/api/notes", token, nil)
	if err != nil {
		return nil, err
	}

	var body []noteDTO
	if err := c.do(req, &body); err != nil {
		return nil, err
	}

	notes := make([]entities.Note, len(body))
	for i, n := range body {
		notes[i] = entities.Note{ID: n.ID, Title: n.Title, Desc: n.Desc, Important: n.Important}
	}
	c.lists.Set(key, notes, cache.DefaultExpiration)
	return notes, nil
}

// CreateNote stores a new note and returns it with its server id.
func (c *Client) CreateNote(ctx context.Context, token string, note entities.Note) (entities.Note, error) {
	jsonData, err := json.Marshal(createNoteRequest{
		Title:     note.Title,
		Desc:      note.Desc,
		Important: note.Important,
	})
	if err != nil {
		return entities.Note{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", "/api/notes", token, bytes.NewReader(jsonData))
	if err != nil {
		return entities.Note{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var body noteDTO
	if err := c.do(req, &body); err != nil {
		return entities.Note{}, err
	}

	c.lists.Delete(noteListCacheKey + "|" + token)
	return entities.Note{ID: body.ID, Title: body.Title, Desc: body.Desc, Important: body.Important}, nil
}

// DeleteNote removes a note by id.
func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	req, err := c.newRequest(ctx, "DELETE", "/api/notes/"+id, token, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		var berr *entities.BackendError
		if errors.As(err, &berr) && berr.StatusCode == http.StatusNotFound {
			return entities.ErrNotFound
		}
		return err
	}
	c.lists.Delete(noteListCacheKey + "|" + token)
	return nil
}
