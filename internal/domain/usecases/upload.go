// Package usecases - upload.go converts a local file into a server-side
// document and makes it the active chat selection.
package usecases

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xcro3dile/neurosync-go/internal/domain/entities"
	"github.com/0xcro3dile/neurosync-go/internal/domain/ports"
)

// UploadState is the observable status of one upload attempt.
type UploadState int

const (
	UploadUploading UploadState = iota
	UploadReady
	UploadFailed
)

// UploadEvent is reported to the presentation layer as an attempt progresses.
// AttemptID is client-local; the document id is server-assigned.
type UploadEvent struct {
	AttemptID string
	Filename  string
	State     UploadState
	Document  entities.Document
	Message   string
}

// UploadPipeline drives the upload-process-chat pipeline: a successful upload
// registers the document in the ChatSessionStore and auto-selects it, which
// resets the thread. Failures are terminal for that attempt; no retries.
type UploadPipeline struct {
	session *AuthSession
	rag     ports.RagService
	store   *ChatSessionStore
	log     *zap.Logger
	notify  func(UploadEvent)
}

// NewUploadPipeline creates an UploadPipeline with injected dependencies.
// notify may be nil when no one observes attempt progress.
func NewUploadPipeline(session *AuthSession, rag ports.RagService, store *ChatSessionStore, notify func(UploadEvent), log *zap.Logger) *UploadPipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if notify == nil {
		notify = func(UploadEvent) {}
	}
	return &UploadPipeline{
		session: session,
		rag:     rag,
		store:   store,
		log:     log.Named("upload"),
		notify:  notify,
	}
}

// Upload sends file bytes to the backend and returns the server-assigned
// document. The token and the file are checked locally first, so failures of
// either cost zero network calls. Identical bytes uploaded twice yield two
// distinct documents; the pipeline performs no dedup.
func (p *UploadPipeline) Upload(ctx context.Context, data []byte, filename string) (entities.Document, error) {
	token, err := p.session.AuthorizedToken()
	if err != nil {
		return entities.Document{}, err
	}
	if len(data) == 0 {
		return entities.Document{}, &entities.ValidationError{Field: "file", Reason: "no file selected"}
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return entities.Document{}, &entities.ValidationError{Field: "filename", Reason: "must not be empty"}
	}

	attempt := uuid.NewString()
	p.log.Info("uploading document",
		zap.String("attempt_id", attempt),
		zap.String("filename", filename),
		zap.Int("size", len(data)))
	p.notify(UploadEvent{AttemptID: attempt, Filename: filename, State: UploadUploading})

	doc, err := p.rag.Upload(ctx, token, filename, bytes.NewReader(data))
	if err != nil {
		msg := failureMessage(err)
		p.log.Info("upload failed", zap.String("attempt_id", attempt), zap.Error(err))
		p.notify(UploadEvent{AttemptID: attempt, Filename: filename, State: UploadFailed, Message: msg})
		return entities.Document{}, err
	}

	doc.Status = entities.DocumentReady
	p.store.Register(doc)
	if serr := p.store.Select(doc.ID); serr != nil {
		// Register just added the id, so this only happens if the store is
		// mutated concurrently; surface it in the logs.
		p.log.Warn("auto-selecting uploaded document failed", zap.Error(serr))
	}

	p.log.Info("upload complete",
		zap.String("attempt_id", attempt),
		zap.String("file_id", doc.ID))
	p.notify(UploadEvent{AttemptID: attempt, Filename: filename, State: UploadReady, Document: doc})
	return doc, nil
}

// failureMessage prefers the backend-supplied detail over a generic one.
func failureMessage(err error) string {
	var berr *entities.BackendError
	if errors.As(err, &berr) && berr.Message != "" {
		return berr.Message
	}
	return "upload failed"
}
