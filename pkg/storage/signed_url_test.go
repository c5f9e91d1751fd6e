package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("STU001-1", "2024/10/INV-20241002-ab12cd34.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	ref, path, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "STU001-1", ref)
	require.Equal(t, "2024/10/INV-20241002-ab12cd34.pdf", path)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("STU001-1", "invoices/INV-1.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	require.ErrorIs(t, err, ErrLinkExpired)
}

func TestSignedURLSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("STU001-1", "invoices/INV-1.pdf")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, err = other.Parse(token)
	require.ErrorIs(t, err, ErrLinkInvalid)

	_, _, err = signer.Parse("not-a-token")
	require.ErrorIs(t, err, ErrLinkInvalid)

	_, _, err = NewSignedURLSigner("", time.Hour).Generate("a", "b")
	require.Error(t, err)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("2024/01/INV-1.pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.True(t, store.Exists("2024/01/INV-1.pdf"))

	data, err := store.Read("2024/01/INV-1.pdf")
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF"), data)

	require.NoError(t, store.Delete("2024/01/INV-1.pdf"))
	require.False(t, store.Exists("2024/01/INV-1.pdf"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape.pdf", []byte("x"))
	require.ErrorIs(t, err, ErrInvalidPath)
}
