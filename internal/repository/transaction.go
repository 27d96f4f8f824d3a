package repository

import (
	"database/sql"
	"fmt"
)

// dbExecutor is satisfied by both *sql.DB and *sql.Tx, letting every
// repository run inside or outside a transaction
type dbExecutor interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// transactionManager implements TransactionManager
type transactionManager struct {
	db *sql.DB
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB) TransactionManager {
	return &transactionManager{db: db}
}

// WithTransaction runs fn with repositories bound to a single transaction,
// committing on success and rolling back on error or panic
func (tm *transactionManager) WithTransaction(fn func(repos *Repositories) error) error {
	tx, err := tm.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	repos := newRepositories(tx, tm)
	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func newRepositories(db dbExecutor, tx TransactionManager) *Repositories {
	return &Repositories{
		Qualification: NewQualificationRepository(db),
		Requirement:   NewRequirementRepository(db),
		Shipment:      NewShipmentRepository(db),
		User:          NewUserRepository(db),
		Tx:            tx,
	}
}

// NewRepositories creates the repository set backed by the connection pool
func NewRepositories(db *sql.DB) *Repositories {
	return newRepositories(db, NewTransactionManager(db))
}
