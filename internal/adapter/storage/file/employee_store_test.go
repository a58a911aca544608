package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"proxy-payout-gateway/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*EmployeeStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	s, err := NewEmployeeStore(path, zerolog.Nop())
	require.NoError(t, err)
	return s, path
}

func employee(address string) *domain.Employee {
	return &domain.Employee{
		Address:         address,
		Name:            "worker",
		EncryptedSecret: "aabb:ccdd",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestEmployeeStore_MissingFileIsEmptyVault(t *testing.T) {
	s, _ := newStore(t)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmployeeStore_CorruptFileIsStartupError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewEmployeeStore(path, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt")
}

func TestEmployeeStore_PutGetRoundTrip(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	emp := employee("TAddr1")
	require.NoError(t, s.Put(ctx, emp))

	got, err := s.Get(ctx, "taddr1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *emp, *got)

	// Reload from disk: the file is the durable record.
	s2, err := NewEmployeeStore(path, zerolog.Nop())
	require.NoError(t, err)
	got2, err := s2.Get(ctx, "taddr1")
	require.NoError(t, err)
	require.NotNil(t, got2)
	assert.Equal(t, emp.EncryptedSecret, got2.EncryptedSecret)
	assert.True(t, emp.CreatedAt.Equal(got2.CreatedAt))
}

func TestEmployeeStore_OverwriteKeepsOneRecord(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first := employee("TAddr1")
	first.EncryptedSecret = "old:cipher"
	require.NoError(t, s.Put(ctx, first))

	second := employee("taddr1") // same canonical address, different case
	second.EncryptedSecret = "new:cipher"
	require.NoError(t, s.Put(ctx, second))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new:cipher", list[0].EncryptedSecret)
}

func TestEmployeeStore_DeleteIdempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, employee("TAddr1")))
	require.NoError(t, s.Delete(ctx, "taddr1"))
	require.NoError(t, s.Delete(ctx, "taddr1"))
	require.NoError(t, s.Delete(ctx, "tnever"))

	got, err := s.Get(ctx, "taddr1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmployeeStore_FileIsCanonicalKeyedJSON(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, employee("TAddr1")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]domain.Employee
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	rec, ok := onDisk["taddr1"]
	require.True(t, ok, "file keys must be canonical addresses")
	assert.Equal(t, "TAddr1", rec.Address, "original casing preserved in the record")
}

func TestEmployeeStore_ConcurrentWriters(t *testing.T) {
	s, path := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := string(rune('a'+i)) + "Taddr"
			assert.NoError(t, s.Put(ctx, employee(addr)))
		}(i)
	}
	wg.Wait()

	// Every write landed and the file parses cleanly.
	s2, err := NewEmployeeStore(path, zerolog.Nop())
	require.NoError(t, err)
	list, err := s2.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 8)
}
