// Package storage persists room and session snapshots to Redis. The
// in-memory state stays authoritative; snapshots exist for operational
// visibility and crash diagnostics.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	roomKeyPrefix    = "room:"
	sessionKeyPrefix = "session:"

	roomExpiration = 2 * time.Hour
)

// RoomData is the Redis serialization of a room snapshot.
type RoomData struct {
	Code       string       `json:"code"`
	Phase      string       `json:"phase"`
	Players    []PlayerData `json:"players"`
	DealerIdx  int          `json:"dealer_idx"`
	TrumpSuit  string       `json:"trump_suit,omitempty"`
	TeamScores [2]int       `json:"team_scores"`
	GoingAlone bool         `json:"going_alone"`
	CreatedAt  int64        `json:"created_at"`
}

// PlayerData is one seat in a room snapshot.
type PlayerData struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
	IsAI     bool   `json:"is_ai"`
	HandSize int    `json:"hand_size"`
}

// PlayerSessionData is the Redis serialization of a player session.
type PlayerSessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	RoomCode       string `json:"room_code"`
	IsOnline       bool   `json:"is_online"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// RedisStore wraps a Redis client with the snapshot schema.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// --- Room snapshots ---

// SaveRoom writes a room snapshot with a rolling expiration.
func (rs *RedisStore) SaveRoom(ctx context.Context, roomCode string, data *RoomData) error {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal room data: %w", err)
	}

	key := roomKeyPrefix + roomCode
	return rs.client.Set(ctx, key, jsonData, roomExpiration).Err()
}

// LoadRoom reads a room snapshot. A missing room returns (nil, nil).
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	key := roomKeyPrefix + code
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var roomData RoomData
	if err := json.Unmarshal(data, &roomData); err != nil {
		return nil, fmt.Errorf("unmarshal room data: %w", err)
	}
	return &roomData, nil
}

// DeleteRoom removes a room snapshot.
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	key := roomKeyPrefix + code
	return rs.client.Del(ctx, key).Err()
}

// GetAllRoomCodes lists the codes of all stored rooms.
func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(roomKeyPrefix):]
	}
	return codes, nil
}

// --- Session snapshots ---

// SaveSession writes a session snapshot as a Redis hash.
func (rs *RedisStore) SaveSession(ctx context.Context, session *PlayerSessionData) error {
	data := map[string]any{
		"player_id":   session.PlayerID,
		"player_name": session.PlayerName,
		"room_code":   session.RoomCode,
		"is_online":   session.IsOnline,
	}
	if session.DisconnectedAt != 0 {
		data["disconnected_at"] = session.DisconnectedAt
	}

	key := sessionKeyPrefix + session.PlayerID
	return rs.client.HSet(ctx, key, data).Err()
}

// LoadSession reads a session snapshot. A missing session returns (nil, nil).
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	key := sessionKeyPrefix + playerID
	data, err := rs.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &PlayerSessionData{
		PlayerID:   data["player_id"],
		PlayerName: data["player_name"],
		RoomCode:   data["room_code"],
		IsOnline:   data["is_online"] == "1",
	}, nil
}

// DeleteSession removes a session snapshot.
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	key := sessionKeyPrefix + playerID
	return rs.client.Del(ctx, key).Err()
}

// SetRoomExpiration adjusts the TTL of a room snapshot.
func (rs *RedisStore) SetRoomExpiration(ctx context.Context, code string, expiration time.Duration) error {
	key := roomKeyPrefix + code
	return rs.client.Expire(ctx, key, expiration).Err()
}
