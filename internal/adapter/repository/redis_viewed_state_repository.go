package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fezeaixcommission/internal/domain/entity"
	"fezeaixcommission/internal/domain/repository"
	"fezeaixcommission/pkg/errors"
)

// Thread checkpoints are stored as zero-padded unix nanoseconds so they
// order as strings; Lua numbers lose precision at that magnitude. A field is
// only overwritten when the incoming value is later.
var maxMergeScript = redis.NewScript(`
for i = 1, #ARGV, 2 do
	local current = redis.call('HGET', KEYS[1], ARGV[i])
	local incoming = ARGV[i + 1]
	if not current or incoming > current then
		redis.call('HSET', KEYS[1], ARGV[i], incoming)
	end
end
return 1
`)

func encodeCheckpoint(at time.Time) string {
	return fmt.Sprintf("%020d", at.UnixNano())
}

func decodeCheckpoint(raw string) (time.Time, error) {
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}

type redisViewedStateRepository struct {
	client *redis.Client
}

func NewRedisViewedStateRepository(client *redis.Client) repository.ViewedStateRepository {
	return &redisViewedStateRepository{
		client: client,
	}
}

func requestsKey(deviceID string) string {
	return fmt.Sprintf("viewed:%s:requests", deviceID)
}

func threadsKey(deviceID string) string {
	return fmt.Sprintf("viewed:%s:threads", deviceID)
}

func (r *redisViewedStateRepository) Get(ctx context.Context, deviceID string) (*entity.AdminViewedState, error) {
	ids, err := r.client.SMembers(ctx, requestsKey(deviceID)).Result()
	if err != nil {
		return nil, errors.Internal("Failed to load viewed requests", err)
	}

	threads, err := r.client.HGetAll(ctx, threadsKey(deviceID)).Result()
	if err != nil {
		return nil, errors.Internal("Failed to load thread checkpoints", err)
	}

	state := entity.NewAdminViewedState(deviceID)
	for _, id := range ids {
		state.ViewedRequestIDs[id] = true
	}
	for id, raw := range threads {
		at, err := decodeCheckpoint(raw)
		if err != nil {
			continue
		}
		state.LastViewedMessageTimestamp[id] = at
	}

	return state, nil
}

func (r *redisViewedStateRepository) AddViewedRequests(ctx context.Context, deviceID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.client.SAdd(ctx, requestsKey(deviceID), toMembers(ids)...).Err(); err != nil {
		return errors.Internal("Failed to mark requests viewed", err)
	}
	return nil
}

func (r *redisViewedStateRepository) MergeThreadCheckpoints(ctx context.Context, deviceID string, checkpoints map[string]time.Time) error {
	if len(checkpoints) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(checkpoints)*2)
	for id, at := range checkpoints {
		if at.IsZero() || at.Before(time.Unix(0, 0)) {
			continue
		}
		args = append(args, id, encodeCheckpoint(at))
	}
	if len(args) == 0 {
		return nil
	}

	if err := maxMergeScript.Run(ctx, r.client, []string{threadsKey(deviceID)}, args...).Err(); err != nil && err != redis.Nil {
		return errors.Internal("Failed to merge thread checkpoints", err)
	}
	return nil
}

func (r *redisViewedStateRepository) ReplaceViewedRequests(ctx context.Context, deviceID string, ids []string) error {
	key := requestsKey(deviceID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) > 0 {
			pipe.SAdd(ctx, key, toMembers(ids)...)
		}
		return nil
	})
	if err != nil {
		return errors.Internal("Failed to replace viewed requests", err)
	}
	return nil
}

func toMembers(ids []string) []interface{} {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return members
}
