package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyPostgresErrors(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, classify(fk), ErrNotFound)

	badUUID := &pgconn.PgError{Code: "22P02"}
	assert.ErrorIs(t, classify(badUUID), ErrNotFound)

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), classify(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
	assert.NoError(t, classify(nil))
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*Repos)(nil)
	var _ Store = (*MemoryStore)(nil)
}
