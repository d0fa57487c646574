package services_test

import (
	"io"
	"log"
	"os"
	"testing"

	"storefront/internal/repositories"
	"storefront/internal/store"

	"github.com/stretchr/testify/require"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// newTestStore returns an initialised store over a freshly seeded in-memory
// key-value backend.
func newTestStore(t *testing.T) (*store.Store, repositories.Repositories, *repositories.MemoryKVStore) {
	t.Helper()
	kv := repositories.NewMemoryKVStore()
	require.NoError(t, repositories.Seed(kv))
	repos := repositories.NewKVRepositories(kv)
	st := store.New(repos)
	require.NoError(t, st.Dispatch(store.InitApp{}))
	return st, repos, kv
}
