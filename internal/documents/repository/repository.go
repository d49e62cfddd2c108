package repository

import (
	"context"
	"errors"
	"fmt"

	"raf_pnp_backend/internal/documents/domain"
	"raf_pnp_backend/platform/apperr"
	"raf_pnp_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	documentNotFoundMessage = "document not found"
	caseNotFoundMessage     = "case not found"
)

// Repository handles case document persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new documents repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `id, case_id, document_name, document_type, file_key, content_type, size_bytes,
	description, date_uploaded, date_received, uploaded_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var d domain.Document
	var docType string
	var uploadedBy *string
	err := row.Scan(&d.ID, &d.CaseID, &d.Name, &docType, &d.FileKey, &d.ContentType, &d.SizeBytes,
		&d.Description, &d.DateUploaded, &d.DateReceived, &uploadedBy)
	d.Type = domain.DocumentType(docType)
	if uploadedBy != nil {
		d.UploadedBy = *uploadedBy
	}
	return d, err
}

func (r *Repository) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	created, err := scanDocument(db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO case_documents (case_id, document_name, document_type, file_key, content_type, size_bytes,
			description, date_uploaded, date_received, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+documentColumns,
		d.CaseID, d.Name, string(d.Type), d.FileKey, d.ContentType, d.SizeBytes,
		d.Description, d.DateUploaded, d.DateReceived, d.UploadedBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Document{}, apperr.NotFound(caseNotFoundMessage)
		}
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	d, err := scanDocument(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+documentColumns+` FROM case_documents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, apperr.NotFound(documentNotFoundMessage)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// ListByCase returns a case's documents, newest upload first.
func (r *Repository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Document, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+documentColumns+` FROM case_documents WHERE case_id = $1 ORDER BY date_uploaded DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate documents: %w", rows.Err())
	}
	return items, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM case_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(documentNotFoundMessage)
	}
	return nil
}
