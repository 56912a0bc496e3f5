package history

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestAppendKeysInsertsEachKey(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPostgresStoreWithPool(mock, "opportunity_keys")
	require.NoError(t, err)

	keys := []string{"hash-a|https://www.gov.br/cnpq/edital-12", "hash-b|"}
	for _, key := range keys {
		mock.ExpectExec("INSERT INTO opportunity_keys").
			WithArgs(key, "run-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, store.AppendKeys(context.Background(), "run-1", keys))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendKeysSkipsEmptyKeys(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPostgresStoreWithPool(mock, "opportunity_keys")
	require.NoError(t, err)

	require.NoError(t, store.AppendKeys(context.Background(), "run-1", []string{""}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendKeysRequiresRunID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPostgresStoreWithPool(mock, "opportunity_keys")
	require.NoError(t, err)

	require.Error(t, store.AppendKeys(context.Background(), "", []string{"k"}))
}

func TestLoadKeysReturnsRows(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPostgresStoreWithPool(mock, "opportunity_keys")
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"canonical_key"}).
		AddRow("hash-a|https://www.gov.br/cnpq/edital-12").
		AddRow("hash-b|")
	mock.ExpectQuery("SELECT canonical_key FROM opportunity_keys").WillReturnRows(rows)

	keys, err := store.LoadKeys(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"hash-a|https://www.gov.br/cnpq/edital-12",
		"hash-b|",
	}, keys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadKeysPropagatesQueryError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPostgresStoreWithPool(mock, "opportunity_keys")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT canonical_key FROM opportunity_keys").
		WillReturnError(errors.New("connection reset"))

	_, err = store.LoadKeys(context.Background())
	require.Error(t, err)
}

func TestNewPostgresStoreWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	if _, err := NewPostgresStoreWithPool(mock, "drop table; --"); err == nil {
		t.Fatal("expected invalid table name error")
	}
	if _, err := NewPostgresStoreWithPool(nil, "ok"); err == nil {
		t.Fatal("expected nil pool error")
	}
}
