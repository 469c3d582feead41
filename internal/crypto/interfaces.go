package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/sealer_mock.go -package=mock

// Sealer protects provider API keys at rest in the device-local store.
// It knows nothing about the network, the database, or users; its only job
// is deriving the sealing key and sealing/opening individual values.
//
// Scheme:
//
//	salt = GenerateSalt()                  (once per device, stored locally)
//	key  = DeriveKey(passphrase, salt)     (Argon2id, memory only)
//	blob = Seal(plaintext, key)            (AES-256-GCM, nonce ‖ ciphertext)
type Sealer interface {
	// GenerateSalt generates a random 16-byte salt. The salt is not a
	// secret and is stored next to the sealed values.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 256-bit sealing key from the device passphrase
	// and salt via Argon2id. The key exists only in client memory.
	DeriveKey(passphrase string, salt []byte) []byte

	// Seal encrypts plaintext with key using AES-256-GCM and returns a
	// base64 blob (nonce ‖ ciphertext) safe to write to the local store.
	Seal(plaintext string, key []byte) (string, error)

	// Open decrypts a blob produced by Seal. An authentication failure
	// (wrong passphrase, bit rot) is reported as an error; callers treat it
	// as local-store corruption, not a crash.
	Open(sealedB64 string, key []byte) (string, error)
}
