package service

import (
	"context"
	"errors"
	"testing"

	"proxy-payout-gateway/internal/core/domain"
	"proxy-payout-gateway/internal/core/ports/mocks"
	"proxy-payout-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type vaultTestDeps struct {
	svc    *VaultServiceImpl
	store  *mocks.MockEmployeeStore
	cipher *mocks.MockSecretCipher
	ctrl   *gomock.Controller
}

func setupVaultService(t *testing.T) *vaultTestDeps {
	ctrl := gomock.NewController(t)
	d := &vaultTestDeps{
		store:  mocks.NewMockEmployeeStore(ctrl),
		cipher: mocks.NewMockSecretCipher(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewVaultService(d.store, d.cipher, zerolog.Nop())
	return d
}

func TestVaultService_Add(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	sealed := domain.StoredSecret{Nonce: "aabb", Ciphertext: "ccdd"}
	d.cipher.EXPECT().Seal("key1").Return(sealed, nil)
	d.store.EXPECT().Put(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.Employee) error {
		assert.Equal(t, "TAddr1", e.Address)
		assert.Equal(t, "alice", e.Name)
		assert.Equal(t, "aabb:ccdd", e.EncryptedSecret)
		assert.False(t, e.CreatedAt.IsZero())
		return nil
	})

	require.NoError(t, d.svc.Add(ctx, "TAddr1", "key1", "alice"))
}

func TestVaultService_Add_MissingFields(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	err := d.svc.Add(ctx, "", "key1", "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)

	err = d.svc.Add(ctx, "TAddr1", "", "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAL_001", appErr.Code)
}

func TestVaultService_Get_CanonicalizesLookup(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	emp := &domain.Employee{Address: "TAddr1"}
	// Mixed-case input resolves through the canonical key.
	d.store.EXPECT().Get(ctx, "taddr1").Return(emp, nil).Times(3)

	for _, in := range []string{"TAddr1", "taddr1", "TADDR1"} {
		got, err := d.svc.Get(ctx, in)
		require.NoError(t, err)
		assert.Same(t, emp, got)
	}
}

func TestVaultService_GetSecret_Encrypted(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	d.store.EXPECT().Get(ctx, "taddr1").Return(&domain.Employee{
		Address:         "TAddr1",
		EncryptedSecret: "aabb:ccdd",
	}, nil)
	d.cipher.EXPECT().Open(domain.StoredSecret{Nonce: "aabb", Ciphertext: "ccdd"}).Return("key1", nil)

	secret, err := d.svc.GetSecret(ctx, "TAddr1")
	require.NoError(t, err)
	assert.Equal(t, "key1", secret)
}

func TestVaultService_GetSecret_LegacyPlaintext(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	// No separator: bootstrap-era plaintext record, returned as-is and
	// never routed through the cipher.
	d.store.EXPECT().Get(ctx, "taddr1").Return(&domain.Employee{
		Address:         "TAddr1",
		EncryptedSecret: "legacy-plain-key",
	}, nil)

	secret, err := d.svc.GetSecret(ctx, "TAddr1")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plain-key", secret)
}

func TestVaultService_GetSecret_NotFound(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	d.store.EXPECT().Get(ctx, "tunknown").Return(nil, nil)

	_, err := d.svc.GetSecret(ctx, "TUnknown")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAULT_001", appErr.Code)
}

func TestVaultService_GetSecret_DecryptionFailure(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	d.store.EXPECT().Get(ctx, "taddr1").Return(&domain.Employee{
		Address:         "TAddr1",
		EncryptedSecret: "aabb:ccdd",
	}, nil)
	d.cipher.EXPECT().Open(gomock.Any()).Return("", errors.New("cipher: message authentication failed"))

	_, err := d.svc.GetSecret(ctx, "TAddr1")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VAULT_002", appErr.Code)
}

func TestVaultService_Exists(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	d.store.EXPECT().Get(ctx, "taddr1").Return(&domain.Employee{Address: "TAddr1"}, nil)
	ok, err := d.svc.Exists(ctx, "TAddr1")
	require.NoError(t, err)
	assert.True(t, ok)

	d.store.EXPECT().Get(ctx, "tother").Return(nil, nil)
	ok, err = d.svc.Exists(ctx, "TOther")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVaultService_Remove_Idempotent(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	// The store treats deleting an absent key as a no-op; the service
	// passes that through.
	d.store.EXPECT().Delete(ctx, "tnever").Return(nil)
	assert.NoError(t, d.svc.Remove(ctx, "TNever"))
}

func TestVaultService_List_NeverExposesSecrets(t *testing.T) {
	d := setupVaultService(t)
	ctx := context.Background()

	d.store.EXPECT().List(ctx).Return([]domain.Employee{
		{Address: "TAddr1", Name: "alice", EncryptedSecret: "aabb:ccdd"},
		{Address: "TAddr2", Name: "", EncryptedSecret: "eeff:0011"},
	}, nil)

	summaries, err := d.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "TAddr1", summaries[0].Address)
	assert.Equal(t, "alice", summaries[0].Name)
}

func TestVaultService_EndToEndWithRealCipher(t *testing.T) {
	// Real cipher + in-memory store behavior via mock passthroughs.
	ctrl := gomock.NewController(t)
	store := mocks.NewMockEmployeeStore(ctrl)
	cipher, err := NewVaultCipher(testPassphrase)
	require.NoError(t, err)
	svc := NewVaultService(store, cipher, zerolog.Nop())
	ctx := context.Background()

	var persisted *domain.Employee
	store.EXPECT().Put(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.Employee) error {
		persisted = e
		return nil
	})
	require.NoError(t, svc.Add(ctx, "TAddr1", "key1", ""))
	require.NotNil(t, persisted)
	assert.NotContains(t, persisted.EncryptedSecret, "key1")

	store.EXPECT().Get(ctx, "taddr1").Return(persisted, nil)
	secret, err := svc.GetSecret(ctx, "TAddr1")
	require.NoError(t, err)
	assert.Equal(t, "key1", secret)
}
