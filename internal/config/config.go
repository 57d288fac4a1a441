package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunables loaded from a JSON file shipped next to the
// runtime module. Every getter has a safe default so a missing file never
// blocks a room.
type GameConfig struct {
	// RoomCapacity caps total room membership, seated plus queued.
	RoomCapacity int `json:"room_capacity"`
	// DealRetryLimit bounds the four-2s redeal loop.
	DealRetryLimit int `json:"deal_retry_limit"`
	// MediaTokenTTLSeconds is the validity window for AV channel tokens.
	MediaTokenTTLSeconds int `json:"media_token_ttl_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetRoomCapacity returns the configured room capacity, default 10.
func GetRoomCapacity() int {
	if cfg == nil || cfg.RoomCapacity <= 0 {
		return 10
	}
	return cfg.RoomCapacity
}

// GetDealRetryLimit returns the configured redeal bound, default 500.
func GetDealRetryLimit() int {
	if cfg == nil || cfg.DealRetryLimit <= 0 {
		return 500
	}
	return cfg.DealRetryLimit
}

// GetMediaTokenTTLSeconds returns the token validity window, default 90.
func GetMediaTokenTTLSeconds() int {
	if cfg == nil || cfg.MediaTokenTTLSeconds <= 0 {
		return 90
	}
	return cfg.MediaTokenTTLSeconds
}
