package driven

// TokenCipher encrypts token strings before they are persisted. The key is
// loaded once at startup and never rotated mid-process, so implementations
// hold no mutable state and are safe for concurrent use.
type TokenCipher interface {
	// EncryptToken encrypts a plaintext token to an opaque blob.
	EncryptToken(plaintext string) ([]byte, error)

	// DecryptToken decrypts a blob produced by EncryptToken. It fails if
	// the blob was not produced with the same key and format.
	DecryptToken(blob []byte) (string, error)
}
