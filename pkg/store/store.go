// Package store persists serialized chains. It offers a SQLite-backed
// relational store for named models and atomic file snapshots; both work on
// the chain package's Document form, so the store never needs to know the
// host's symbol type.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/markovkit/pkg/chain"
)

// ModelInfo holds the essential metadata for a stored chain: its unique ID,
// name, and state size (n-gram order).
type ModelInfo struct {
	Id        int
	Name      string
	StateSize int
}

// SetupSchema initializes the necessary tables in the provided database.
// This function should be called once on a new database before any other
// operations are performed. It is idempotent and safe to call on an
// already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS chain_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    state_size INTEGER NOT NULL
);
`
		schemaLinks = `
CREATE TABLE IF NOT EXISTS chain_links (
    model_id INTEGER NOT NULL,
    state_key TEXT NOT NULL,
    follow_key TEXT NOT NULL,
    value TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (model_id, state_key, follow_key)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing. If it fails, this will clean up.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaModels); err != nil {
		return fmt.Errorf("could not create models schema: %w", err)
	}

	if _, err = tx.Exec(schemaLinks); err != nil {
		return fmt.Errorf("could not create links schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store persists serialized chains in a SQLite database. It holds the
// database connection and prepared SQL statements for efficient access.
type Store struct {
	db              *sql.DB
	stmtGetModel    *sql.Stmt
	stmtListModels  *sql.Stmt
	stmtInsertModel *sql.Stmt
	stmtUpdateModel *sql.Stmt
	stmtDeleteLinks *sql.Stmt
	stmtGetLinks    *sql.Stmt
	logger          *slog.Logger
}

// NewStore creates and returns a new Store over the given database. It
// pre-compiles all necessary SQL statements, returning an error if any
// preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetModel, err := db.Prepare(`SELECT model_id, state_size FROM chain_models WHERE model_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListModels, err := db.Prepare(`SELECT model_id, model_name, state_size FROM chain_models;`)
	if err != nil {
		return nil, err
	}

	stmtInsertModel, err := db.Prepare(`INSERT INTO chain_models (model_name, state_size) VALUES (?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtUpdateModel, err := db.Prepare(`UPDATE chain_models SET state_size = ? WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtDeleteLinks, err := db.Prepare(`DELETE FROM chain_links WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetLinks, err := db.Prepare(`SELECT state_key, follow_key, value, count FROM chain_links WHERE model_id = ? ORDER BY state_key, follow_key;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:              db,
		stmtGetModel:    stmtGetModel,
		stmtListModels:  stmtListModels,
		stmtInsertModel: stmtInsertModel,
		stmtUpdateModel: stmtUpdateModel,
		stmtDeleteLinks: stmtDeleteLinks,
		stmtGetLinks:    stmtGetLinks,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. It should be
// called when the Store is no longer needed to free up database resources.
func (s *Store) Close() {
	_ = s.stmtGetModel.Close()
	_ = s.stmtListModels.Close()
	_ = s.stmtInsertModel.Close()
	_ = s.stmtUpdateModel.Close()
	_ = s.stmtDeleteLinks.Close()
	_ = s.stmtGetLinks.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are
// discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// List retrieves metadata for all stored chains, returned in a map keyed by
// model name.
func (s *Store) List(ctx context.Context) (map[string]ModelInfo, error) {
	rows, err := s.stmtListModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	models := make(map[string]ModelInfo)
	for rows.Next() {
		var model ModelInfo
		if err = rows.Scan(&model.Id, &model.Name, &model.StateSize); err != nil {
			return nil, err
		}
		models[model.Name] = model
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return models, nil
}

// Info retrieves the metadata for a single stored chain by name. The error
// is sql.ErrNoRows when no chain with that name exists.
func (s *Store) Info(ctx context.Context, name string) (ModelInfo, error) {
	var id, stateSize int
	if err := s.stmtGetModel.QueryRowContext(ctx, name).Scan(&id, &stateSize); err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{Id: id, Name: name, StateSize: stateSize}, nil
}

// Save writes a serialized chain under the given name, replacing any
// previous contents. The entire operation is performed within a single
// transaction: on failure nothing is changed.
func (s *Store) Save(ctx context.Context, name string, doc *chain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for save: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID, oldStateSize int
	err = tx.StmtContext(ctx, s.stmtGetModel).QueryRowContext(ctx, name).Scan(&modelID, &oldStateSize)
	if errors.Is(err, sql.ErrNoRows) {
		res, err := tx.StmtContext(ctx, s.stmtInsertModel).ExecContext(ctx, name, doc.StateSize)
		if err != nil {
			return fmt.Errorf("failed to insert model '%s': %w", name, err)
		}
		newID, _ := res.LastInsertId()
		modelID = int(newID)
	} else if err != nil {
		return fmt.Errorf("failed to query for model '%s': %w", name, err)
	} else {
		if _, err = tx.StmtContext(ctx, s.stmtUpdateModel).ExecContext(ctx, doc.StateSize, modelID); err != nil {
			return fmt.Errorf("failed to update model '%s': %w", name, err)
		}
		if _, err = tx.StmtContext(ctx, s.stmtDeleteLinks).ExecContext(ctx, modelID); err != nil {
			return fmt.Errorf("failed to clear links for model '%s': %w", name, err)
		}
	}

	stmtInsertLink, err := tx.PrepareContext(ctx, `INSERT INTO chain_links (model_id, state_key, follow_key, value, count) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert statement: %w", err)
	}
	defer func(stmt *sql.Stmt) {
		_ = stmt.Close()
	}(stmtInsertLink)

	var linkCount int
	for _, se := range doc.Model {
		for _, fe := range se.Follows {
			if _, err = stmtInsertLink.ExecContext(ctx, modelID, se.Key, fe.Key, string(fe.Record.Value), fe.Record.Count); err != nil {
				return fmt.Errorf("failed to insert link (%s -> %s): %w", se.Key, fe.Key, err)
			}
			linkCount++
		}
	}

	s.logger.InfoContext(ctx, "Chain saved",
		slog.String("model_name", name),
		slog.Int("model_id", modelID),
		slog.Int("state_size", doc.StateSize),
		slog.Int("states_saved", len(doc.Model)),
		slog.Int("links_saved", linkCount),
	)

	return tx.Commit()
}

// Load reads a stored chain back into its Document form. State and follow
// entries come back in sorted key order, matching the output of Serialize.
// The error is sql.ErrNoRows when no chain with that name exists.
func (s *Store) Load(ctx context.Context, name string) (*chain.Document, error) {
	info, err := s.Info(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.stmtGetLinks.QueryContext(ctx, info.Id)
	if err != nil {
		return nil, fmt.Errorf("could not query links for model '%s': %w", name, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	doc := &chain.Document{StateSize: info.StateSize, Model: []chain.StateEntry{}}
	for rows.Next() {
		var stateKey, followKey, value string
		var count int
		if err = rows.Scan(&stateKey, &followKey, &value, &count); err != nil {
			return nil, err
		}
		entry := chain.FollowEntry{
			Key:    followKey,
			Record: chain.Record{Value: json.RawMessage(value), Count: count},
		}
		// Links arrive ordered by state key, so states are contiguous.
		if n := len(doc.Model); n > 0 && doc.Model[n-1].Key == stateKey {
			doc.Model[n-1].Follows = append(doc.Model[n-1].Follows, entry)
		} else {
			doc.Model = append(doc.Model, chain.StateEntry{Key: stateKey, Follows: []chain.FollowEntry{entry}})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Chain loaded",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
		slog.Int("states_loaded", len(doc.Model)),
	)

	return doc, nil
}

// Delete removes a stored chain and all of its links. The operation is
// performed within a transaction. Deleting a name that does not exist is not
// an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	info, err := s.Info(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM chain_links WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove links for model %d: %w", info.Id, err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM chain_models WHERE model_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Chain removed",
		slog.String("model_name", name),
		slog.Int("model_id", info.Id),
	)

	return tx.Commit()
}
