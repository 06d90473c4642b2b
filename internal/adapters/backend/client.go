// Package backend provides the NeuroSync REST API adapter.
// Clean Architecture: Adapter implementing ports.RagService and
// ports.NoteService over HTTP with bearer authorization.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
)

const (
	docListCacheKey  = "rag/sessions"
	noteListCacheKey = "notes"
)

// Client talks to the NeuroSync backend. GET listings are cached for a few
// seconds per token and invalidated by the mutating calls, so a refresh right
// after an upload or note change always sees fresh data.
type Client struct {
	baseURL string
	client  *http.Client
	lists   *cache.Cache
	log     *zap.Logger
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 120 * time.Second, // uploads and chat can be slow
		},
		lists: cache.New(5*time.Second, time.Minute),
		log:   log.Named("backend"),
	}
}

// documentDTO is the wire form of an uploaded document.
type documentDTO struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// chatTurnDTO is one history entry on the wire.
type chatTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat endpoint payload.
type chatRequest struct {
	Question    string        `json:"question"`
	ChatHistory []chatTurnDTO `json:"chat_history"`
}

// chatResponse is the chat endpoint response.
type chatResponse struct {
	Answer      string        `json:"answer"`
	ChatHistory []chatTurnDTO `json:"chat_history"`
}

// detailResponse carries the backend's optional failure message.
type detailResponse struct {
	Detail string `json:"detail"`
}

// ListDocuments returns all documents belonging to the token's user.
func (c *Client) ListDocuments(ctx context.Context, token string) ([]entities.Document, error) {
	key := docListCacheKey + "|" + token
	if cached, found := c.lists.Get(key); found {
		return cached.([]entities.Document), nil
	}

	req, err := c.newRequest(ctx, "GET", "/api/rag/sessions", token, nil)
	if err != nil {
		return nil, err
	}

	var body []documentDTO
	if err := c.do(req, &body); err != nil {
		return nil, err
	}

	docs := make([]entities.Document, len(body))
	for i, d := range body {
		docs[i] = entities.Document{ID: d.FileID, Filename: d.Filename, Status: entities.DocumentReady}
	}
	c.lists.Set(key, docs, cache.DefaultExpiration)
	return docs, nil
}

// Upload sends file bytes as a multipart form and returns the server-assigned
// document. The server accepts the upload with 201 Created.
func (c *Client) Upload(ctx context.Context, token, filename string, data io.Reader) (entities.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return entities.Document{}, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return entities.Document{}, fmt.Errorf("writing form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return entities.Document{}, fmt.Errorf("closing form: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", "/api/rag/upload", token, &buf)
	if err != nil {
		return entities.Document{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var body documentDTO
	if err := c.do(req, &body); err != nil {
		return entities.Document{}, err
	}

	c.lists.Delete(docListCacheKey + "|" + token)
	return entities.Document{ID: body.FileID, Filename: body.Filename, Status: entities.DocumentReady}, nil
}

// Chat asks one question against a document, sending the prior history. The
// server returns the answer and its full updated history.
func (c *Client) Chat(ctx context.Context, token, documentID, question string, history []entities.ChatTurn) (string, []entities.ChatTurn, error) {
	reqBody := chatRequest{
		Question:    question,
		ChatHistory: make([]chatTurnDTO, len(history)),
	}
	for i, t := range history {
		reqBody.ChatHistory[i] = chatTurnDTO{Role: string(t.Role), Content: t.Text}
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, "POST", "/api/rag/chat/"+documentID, token, bytes.NewReader(jsonData))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var body chatResponse
	if err := c.do(req, &body); err != nil {
		return "", nil, err
	}

	updated := make([]entities.ChatTurn, len(body.ChatHistory))
	for i, t := range body.ChatHistory {
		updated[i] = entities.ChatTurn{Role: entities.Role(t.Role), Text: t.Content}
	}
	return body.Answer, updated, nil
}

// newRequest builds an authorized request against the backend.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// do executes the request and decodes any 2xx response into out. Non-2xx
// becomes BackendError carrying the server's detail message when one was
// supplied.
func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &entities.NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("backend call",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &entities.BackendError{
			StatusCode: resp.StatusCode,
			Message:    decodeDetail(resp),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &entities.BackendError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
		}
	}
	return nil
}

func decodeDetail(resp *http.Response) string {
	var body detailResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		return body.Detail
	}
	return http.StatusText(resp.StatusCode)
}
