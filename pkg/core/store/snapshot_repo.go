package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tenderflow/pkg/models"
)

// ErrSnapshotNotFound is returned when a workspace has no documents.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Document kinds stored in entity_documents.kind.
const (
	KindProject     = "project"
	KindTender      = "tender"
	KindInvoice     = "invoice"
	KindBudget      = "budget"
	KindExpense     = "expense"
	KindBankAccount = "bank_account"
	KindReport      = "report"
	KindClient      = "client"
)

// SnapshotLoader loads every collection of a workspace.
type SnapshotLoader interface {
	Load(ctx context.Context, workspace string) (*models.Snapshot, error)
}

// SnapshotRepo reads and writes workspace documents in Postgres. Each record
// is one JSONB row keyed by (workspace, kind, id).
type SnapshotRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewSnapshotRepo creates a repository on the given pool, or on the shared
// pool when nil.
func NewSnapshotRepo(p *pgxpool.Pool) *SnapshotRepo {
	if p == nil {
		p = GetPool()
	}
	return &SnapshotRepo{pool: p, now: time.Now}
}

// Load selects all documents of the workspace and decodes them by kind.
func (r *SnapshotRepo) Load(ctx context.Context, workspace string) (*models.Snapshot, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT kind, payload FROM entity_documents WHERE workspace_id = $1 ORDER BY kind, id`
	rows, err := r.pool.Query(ctx, query, workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	snap := models.Snapshot{Workspace: workspace}
	found := 0
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := decodeDocument(&snap, kind, payload); err != nil {
			return nil, err
		}
		found++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	if found == 0 {
		return nil, fmt.Errorf("workspace %s: %w", workspace, ErrSnapshotNotFound)
	}
	return &snap, nil
}

// Save upserts every record of the snapshot under workspace in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, workspace string, snap *models.Snapshot) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	docs, err := encodeDocuments(snap)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO entity_documents (workspace_id, kind, id, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workspace_id, kind, id)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at;
	`

	now := r.now()
	batch := &pgx.Batch{}
	for _, d := range docs {
		batch.Queue(query, workspace, d.kind, d.id, d.payload, now)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	return tx.Commit(ctx)
}

// decodeDocument appends one payload to the collection named by kind.
// Unknown kinds belong to other consumers of the table and are ignored.
func decodeDocument(snap *models.Snapshot, kind string, payload []byte) error {
	var err error
	switch kind {
	case KindProject:
		err = appendDecoded(&snap.Projects, payload)
	case KindTender:
		err = appendDecoded(&snap.Tenders, payload)
	case KindInvoice:
		err = appendDecoded(&snap.Invoices, payload)
	case KindBudget:
		err = appendDecoded(&snap.Budgets, payload)
	case KindExpense:
		err = appendDecoded(&snap.Expenses, payload)
	case KindBankAccount:
		err = appendDecoded(&snap.BankAccounts, payload)
	case KindReport:
		err = appendDecoded(&snap.Reports, payload)
	case KindClient:
		err = appendDecoded(&snap.Clients, payload)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s document: %w", kind, err)
	}
	return nil
}

func appendDecoded[T any](dst *[]T, payload []byte) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return err
	}
	*dst = append(*dst, v)
	return nil
}

type document struct {
	kind    string
	id      string
	payload []byte
}

func encodeDocuments(snap *models.Snapshot) ([]document, error) {
	var docs []document
	add := func(kind, id string, v interface{}) error {
		if id == "" {
			return fmt.Errorf("%s document has no id", kind)
		}
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s: %w", kind, id, err)
		}
		docs = append(docs, document{kind: kind, id: id, payload: payload})
		return nil
	}

	for _, v := range snap.Projects {
		if err := add(KindProject, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Tenders {
		if err := add(KindTender, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Invoices {
		if err := add(KindInvoice, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Budgets {
		if err := add(KindBudget, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Expenses {
		if err := add(KindExpense, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.BankAccounts {
		if err := add(KindBankAccount, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Reports {
		if err := add(KindReport, v.ID, v); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Clients {
		if err := add(KindClient, v.ID, v); err != nil {
			return nil, err
		}
	}
	return docs, nil
}
