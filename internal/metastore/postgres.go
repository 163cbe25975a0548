package metastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/docvault/internal/dbx"
	"github.com/dmitrijs2005/docvault/internal/models"
	"github.com/dmitrijs2005/docvault/migrations"
)

// PostgresRepository implements Repository over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres via the pgx stdlib driver and applies the
// embedded goose migrations before returning the handle.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

// Create inserts the record with a freshly assigned id. CreatedAt is set to
// the current time when the caller left it zero.
func (r *PostgresRepository) Create(ctx context.Context, doc *models.VaultDocument) (string, error) {
	id := uuid.NewString()

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO documents (id, owner_id, title, created_at, blob_ref, kind, security_flag, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	res, err := r.db.ExecContext(ctx, query,
		id, doc.OwnerID, doc.Title, createdAt, doc.BlobRef, string(doc.Kind), doc.SecurityFlag, nullableText(doc.Notes))
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return "", fmt.Errorf("unexpected rows affected: %d", n)
	}

	return id, nil
}

// List returns all records for ownerID.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.VaultDocument, error) {
	query := `
		SELECT id, owner_id, title, created_at, blob_ref, kind, security_flag, notes FROM documents
		WHERE owner_id=$1
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.VaultDocument
	for rows.Next() {
		var item models.VaultDocument
		var kind string
		var notes sql.NullString
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.CreatedAt,
			&item.BlobRef, &kind, &item.SecurityFlag, &notes); err != nil {
			return nil, err
		}
		item.Kind = models.DocumentKind(kind)
		item.Notes = notes.String
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the record by id, checking ownership in the same statement.
// Zero affected rows means the record is absent or foreign: ErrNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, id string) error {
	query := `DELETE FROM documents WHERE id=$1 AND owner_id=$2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
