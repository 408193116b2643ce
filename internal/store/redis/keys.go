package redis

import "fmt"

const (
	// KeyPrefixSession is the prefix for gate session keys
	KeyPrefixSession = "partnerfinder:session:"
	// ChannelListingChanges is the pub/sub channel carrying listing mutations
	ChannelListingChanges = "partnerfinder:listings:changes"
)

// SessionKey returns the Redis key for a session token
func SessionKey(token string) string {
	return KeyPrefixSession + token
}

// ExtractSessionToken extracts the session token from a Redis key
func ExtractSessionToken(key string) (string, error) {
	if len(key) <= len(KeyPrefixSession) || key[:len(KeyPrefixSession)] != KeyPrefixSession {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	return key[len(KeyPrefixSession):], nil
}
