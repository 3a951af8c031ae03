package crypto

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// NamespaceKey returns a stable, non-reversible namespace for an identity id.
// Ключи локального кэша не содержат email пользователя в открытом виде.
func NamespaceKey(identityID string) string {
	normalized := strings.ToLower(strings.TrimSpace(identityID))
	sum := blake2b.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:16])
}
