package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"ailab/internal/audio"
)

const (
	speechKeyPrefix = "speech:"

	// DefaultSpeechTTL is how long synthesized speech is kept.
	DefaultSpeechTTL = 24 * time.Hour
)

// SpeechCache stores synthesized PCM keyed by a hash of the spoken text.
// Values are kept base64 encoded, the form providers return inline audio
// in.
type SpeechCache struct {
	store store
}

// NewSpeechCache creates a speech cache. A nil client disables it.
func NewSpeechCache(client *redis.Client, ttl time.Duration) *SpeechCache {
	if ttl == 0 {
		ttl = DefaultSpeechTTL
	}
	return &SpeechCache{store: store{client: client, prefix: speechKeyPrefix, ttl: ttl}}
}

// SpeechKey returns the cache key for text.
func SpeechKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Get returns cached PCM for text.
func (sc *SpeechCache) Get(ctx context.Context, text string) ([]byte, bool) {
	val, ok := sc.store.get(ctx, SpeechKey(text))
	if !ok {
		return nil, false
	}
	pcm, err := audio.DecodeBase64(string(val))
	if err != nil {
		return nil, false
	}
	return pcm, true
}

// Set stores PCM for text.
func (sc *SpeechCache) Set(ctx context.Context, text string, pcm []byte) {
	sc.store.set(ctx, SpeechKey(text), []byte(base64.StdEncoding.EncodeToString(pcm)))
}
