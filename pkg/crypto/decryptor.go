package crypto

import (
	"encoding/base64"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/pbkdf2"

	"crypto/sha256"

	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
)

const pbkdf2Iterations = 100_000

// Decryptor decrypts opaque activity-record fields. Fields are base64-encoded
// Fernet tokens produced by the tracking agent with a shared symmetric key.
type Decryptor struct {
	keys []*fernet.Key
}

// NewDecryptor builds a decryptor from the configured key material. The key
// may be a standard url-safe-base64 Fernet key, or an arbitrary passphrase
// combined with a salt, from which a key is derived via PBKDF2-SHA256.
func NewDecryptor(rawKey, salt string) (*Decryptor, error) {
	if rawKey == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidKey, "decryption key is not configured")
	}

	if key, err := fernet.DecodeKey(rawKey); err == nil {
		return &Decryptor{keys: []*fernet.Key{key}}, nil
	}

	if salt == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidKey, "decryption key is not a valid Fernet key and no salt is set for derivation")
	}

	derived := pbkdf2.Key([]byte(rawKey), []byte(salt), pbkdf2Iterations, 32, sha256.New)
	var key fernet.Key
	copy(key[:], derived)
	return &Decryptor{keys: []*fernet.Key{&key}}, nil
}

// Decrypt decodes and verifies a single encrypted field. Any decoding or
// authentication failure is reported as an error; callers treat that as
// "field unavailable" rather than fatal. A single key, a single attempt.
func (d *Decryptor) Decrypt(field string) (string, error) {
	token, err := base64.StdEncoding.DecodeString(field)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrDecryptFailed.Code, appErrors.ErrDecryptFailed.Status, "field is not valid base64")
	}

	msg := fernet.VerifyAndDecrypt(token, 0, d.keys)
	if msg == nil {
		return "", appErrors.Clone(appErrors.ErrDecryptFailed, "token verification failed")
	}

	return string(msg), nil
}
