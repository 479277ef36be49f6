package domain

// Algorithm represents the AEAD algorithm the CipherBox uses for payloads at rest.
//
// Both algorithms use a 256-bit key, a 96-bit random nonce and a 128-bit
// authentication tag, so ciphertexts produced by either have the same layout.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware
	// acceleration is not available.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required size in bytes of the process-wide encryption key.
const KeySize = 32

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM, ChaCha20:
		return Algorithm(value), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
