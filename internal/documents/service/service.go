// Package service stores case documents in object storage and records them
// against the case.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	casedomain "raf_pnp_backend/internal/cases/domain"
	"raf_pnp_backend/internal/adapters/storage"
	"raf_pnp_backend/internal/documents/domain"
	"raf_pnp_backend/internal/documents/ports"
	"raf_pnp_backend/internal/documents/transport"
	"raf_pnp_backend/internal/events"
	"raf_pnp_backend/platform/actor"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"
	"raf_pnp_backend/platform/logger"
	"raf_pnp_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgStorageNotConfigured = "document storage is not configured"

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, d domain.Document) (domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadInput describes one file received for a case.
type UploadInput struct {
	CaseID       uuid.UUID
	FileName     string
	ContentType  string
	Size         int64
	Body         io.Reader
	Type         domain.DocumentType
	Description  string
	DateReceived *time.Time
}

// Service provides document business logic.
type Service struct {
	repo       Repository
	uow        db.UnitOfWork
	store      storage.Store
	policy     storage.Policy
	activities ports.CaseActivityRecorder
	eventBus   events.Bus
	system     actor.Actor
	log        *logger.Logger
	now        func() time.Time
}

// New creates a documents service. A nil store disables uploads and downloads.
func New(repo Repository, uow db.UnitOfWork, store storage.Store, policy storage.Policy, activities ports.CaseActivityRecorder, eventBus events.Bus, system actor.Actor, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		uow:        uow,
		store:      store,
		policy:     policy,
		activities: activities,
		eventBus:   eventBus,
		system:     system,
		log:        log,
		now:        time.Now,
	}
}

// Upload validates and stores the file, then writes the record and the
// case activity in one unit of work. The object is removed if that fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (transport.DocumentResponse, error) {
	if s.store == nil {
		return transport.DocumentResponse{}, apperr.Internal(msgStorageNotConfigured)
	}
	if !in.Type.IsValid() {
		return transport.DocumentResponse{}, apperr.Validation("invalid document type")
	}
	contentType, err := s.policy.Check(in.ContentType, in.Size)
	if err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}

	name := strings.TrimSpace(in.FileName)
	if name == "" {
		name = "document"
	}

	key := storage.CaseDocumentKey(in.CaseID, name)
	if err := s.store.Put(ctx, key, contentType, in.Body, in.Size); err != nil {
		return transport.DocumentResponse{}, fmt.Errorf("upload document: %w", err)
	}

	who := actor.OrSystem(ctx, s.system)
	var created domain.Document
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		doc, err := s.repo.Create(ctx, domain.Document{
			CaseID:       in.CaseID,
			Name:         name,
			Type:         in.Type,
			FileKey:      key,
			ContentType:  contentType,
			SizeBytes:    in.Size,
			Description:  sanitize.Optional(in.Description),
			DateUploaded: s.now(),
			DateReceived: in.DateReceived,
			UploadedBy:   who.Label(),
		})
		if err != nil {
			return err
		}

		title, description := domain.UploadedActivity(doc.Name, doc.Type)
		if err := s.activities.RecordActivity(ctx, doc.CaseID, casedomain.ActivityDraft{
			Type:        casedomain.ActivityDocumentUploaded,
			Title:       title,
			Description: description,
		}); err != nil {
			return err
		}

		created = doc
		db.AfterCommit(ctx, func(ctx context.Context) {
			s.eventBus.Publish(ctx, events.DocumentUploaded{
				BaseEvent:    events.NewBaseEvent(),
				CaseID:       doc.CaseID,
				DocumentID:   doc.ID,
				DocumentName: doc.Name,
				DocumentType: string(doc.Type),
			})
		})
		return nil
	})
	if err != nil {
		if delErr := s.store.Remove(context.WithoutCancel(ctx), key); delErr != nil {
			s.log.Warn("orphaned document object", "key", key, "error", delErr)
		}
		return transport.DocumentResponse{}, err
	}

	s.log.Info("document uploaded", "caseId", created.CaseID, "documentId", created.ID, "type", created.Type)
	return toResponse(created), nil
}

func (s *Service) ListByCase(ctx context.Context, caseID uuid.UUID) ([]transport.DocumentResponse, error) {
	docs, err := s.repo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d))
	}
	return out, nil
}

// Download returns a presigned URL that saves the file under its original name.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (transport.DownloadResponse, error) {
	if s.store == nil {
		return transport.DownloadResponse{}, apperr.Internal(msgStorageNotConfigured)
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DownloadResponse{}, err
	}
	link, err := s.store.DownloadLink(ctx, doc.FileKey, doc.Name)
	if err != nil {
		return transport.DownloadResponse{}, fmt.Errorf("presign document: %w", err)
	}
	return transport.DownloadResponse{URL: link.URL, FileName: doc.Name, ExpiresAt: link.ExpiresAt}, nil
}

// Delete removes the record and then its object. A failed object delete is
// logged and leaves only an orphaned object behind.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Remove(ctx, doc.FileKey); err != nil {
			s.log.Warn("orphaned document object", "key", doc.FileKey, "error", err)
		}
	}
	return nil
}

func toResponse(d domain.Document) transport.DocumentResponse {
	return transport.DocumentResponse{
		ID:                  d.ID,
		CaseID:              d.CaseID,
		DocumentName:        d.Name,
		DocumentType:        string(d.Type),
		DocumentTypeDisplay: d.Type.DisplayName(),
		ContentType:         d.ContentType,
		SizeBytes:           d.SizeBytes,
		Description:         d.Description,
		DateUploaded:        d.DateUploaded,
		DateReceived:        d.DateReceived,
		UploadedBy:          d.UploadedBy,
	}
}
