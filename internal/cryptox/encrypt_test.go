package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturpetrov/clinicore/internal/common"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s, err := New(common.GenerateRandByteArray(32))
	require.NoError(t, err)
	return s
}

func TestNew_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 1, 15, 31, 33, 64} {
		_, err := New(common.GenerateRandByteArray(n))
		require.ErrorIsf(t, err, common.ErrKeyLoad, "key length %d must be rejected", n)
	}
	for _, n := range []int{16, 24, 32} {
		_, err := New(common.GenerateRandByteArray(n))
		require.NoErrorf(t, err, "key length %d must be accepted", n)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	s := newService(t)

	for _, plain := range []string{
		"a",
		"4510019230",
		"Ελένη Παπαδοπούλου",
		"+30 210 7777777, Πατησίων 42",
		string(make([]byte, 4096)),
	} {
		ct, err := s.Encrypt(plain)
		require.NoError(t, err)
		require.NotEqual(t, plain, ct)

		got, err := s.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	s := newService(t)

	const plain = "same plaintext"
	ct1, err := s.Encrypt(plain)
	require.NoError(t, err)
	ct2, err := s.Encrypt(plain)
	require.NoError(t, err)

	assert.NotEqual(t, ct1, ct2, "fresh nonce per call must vary the ciphertext")

	for _, ct := range []string{ct1, ct2} {
		got, err := s.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestEncrypt_EmptyPassthrough(t *testing.T) {
	s := newService(t)

	ct, err := s.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", ct)

	got, err := s.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	s := newService(t)

	ct, err := s.Encrypt("sensitive")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = s.Decrypt(tampered)
	require.ErrorIs(t, err, common.ErrDecryptionFailed)

	f := s.Open(tampered)
	assert.Equal(t, FieldFailed, f.State)
	assert.Equal(t, "", f.OrEmpty(), "tolerant read must collapse failure to empty")
	assert.ErrorIs(t, f.Err, common.ErrDecryptionFailed)
}

func TestDecrypt_GarbageInputs(t *testing.T) {
	s := newService(t)

	for _, ct := range []string{"not base64 !!!", "AAAA", base64.StdEncoding.EncodeToString([]byte("short"))} {
		_, err := s.Decrypt(ct)
		require.ErrorIsf(t, err, common.ErrDecryptionFailed, "input %q", ct)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	s1 := newService(t)
	s2 := newService(t)

	ct, err := s1.Encrypt("cross-key")
	require.NoError(t, err)

	_, err = s2.Decrypt(ct)
	require.ErrorIs(t, err, common.ErrDecryptionFailed)
	assert.Equal(t, "", s2.Open(ct).OrEmpty())
}

func TestOpen_DistinguishesStates(t *testing.T) {
	s := newService(t)

	assert.Equal(t, FieldEmpty, s.Open("").State)

	ct, err := s.Encrypt("v")
	require.NoError(t, err)
	f := s.Open(ct)
	assert.Equal(t, FieldPresent, f.State)
	assert.Equal(t, "v", f.Value)
}

func TestLookupHash_DeterministicAndKeyed(t *testing.T) {
	s1 := newService(t)
	s2 := newService(t)

	assert.Equal(t, s1.LookupHash("4510019230"), s1.LookupHash("4510019230"))
	assert.NotEqual(t, s1.LookupHash("4510019230"), s1.LookupHash("4510019231"))
	assert.NotEqual(t, s1.LookupHash("4510019230"), s2.LookupHash("4510019230"),
		"lookup hash must depend on the key")
	assert.Equal(t, "", s1.LookupHash(""))
}
