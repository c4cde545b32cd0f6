package conn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const deleteBindingScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var deleteBindingLua = redis.NewScript(deleteBindingScript)

// RedisStore is a Redis-backed binding [Store] for multi-instance
// deployments: any relay instance can resolve a connection bound through
// another instance.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a binding [RedisStore] backed by the given Redis
// client. prefix sets the Redis key namespace for binding values.
func NewRedisStore(redis redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *RedisStore) key(connectionID string) string {
	return s.prefix + ":" + connectionID
}

func (s *RedisStore) userKey(userID string) string {
	return "rbu:" + userID
}

// Put writes a binding with the given TTL and adds the connection ID to the
// owner's index set. A re-bind of the same connection ID overwrites the value
// wholesale.
//
//	Performance: 2 Redis commands (SET + SADD, one transaction).
func (s *RedisStore) Put(ctx context.Context, b *Binding, ttl time.Duration) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(b.ConnectionID), data, ttl)
		pipe.SAdd(ctx, s.userKey(b.UserID), b.ConnectionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a binding by connection ID. A binding whose ExpiresAt has
// passed is deleted together with its index entry and reported as absent.
//
//	Performance: 1 Redis GET on the live path.
func (s *RedisStore) Get(ctx context.Context, connectionID string) (*Binding, error) {
	data, err := s.redis.Get(ctx, s.key(connectionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	b, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b.ConnectionID = connectionID

	if time.Now().Unix() >= b.ExpiresAt {
		if err := s.deleteBindingAndIndex(ctx, b.UserID, connectionID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	return b, nil
}

// Delete removes a binding and its index entry. Deleting a connection ID
// that is not bound is not an error.
func (s *RedisStore) Delete(ctx context.Context, connectionID string) error {
	data, err := s.redis.Get(ctx, s.key(connectionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	b, err := Decode(data)
	if err != nil {
		return err
	}

	return s.deleteBindingAndIndex(ctx, b.UserID, connectionID)
}

// ByUser returns the live bindings for a user. Index members whose values
// are missing or expired are pruned from the index in the same call, so the
// set tracks reality without a background sweeper. A member whose value was
// rebound to another owner is pruned without touching the value.
//
//	Performance: 1 SMEMBERS + 1 pipelined multi-GET + optional prune batch.
func (s *RedisStore) ByUser(ctx context.Context, userID string) ([]*Binding, error) {
	userKey := s.userKey(userID)

	connectionIDs, err := s.redis.SMembers(ctx, userKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*Binding{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(connectionIDs) == 0 {
		return []*Binding{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(connectionIDs))
	for i, connectionID := range connectionIDs {
		cmds[i] = pipe.Get(ctx, s.key(connectionID))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	nowUnix := time.Now().Unix()
	bindings := make([]*Binding, 0, len(connectionIDs))
	var stale []string
	var dead []string
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				stale = append(stale, connectionIDs[i])
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, cmdErr)
		}

		b, decErr := Decode(data)
		if decErr != nil {
			return nil, decErr
		}
		b.ConnectionID = connectionIDs[i]
		if b.UserID != userID {
			// Rebound to another owner: the value key now belongs to
			// that owner, only this index member is stale.
			stale = append(stale, connectionIDs[i])
			continue
		}
		if nowUnix >= b.ExpiresAt {
			stale = append(stale, connectionIDs[i])
			dead = append(dead, connectionIDs[i])
			continue
		}

		bindings = append(bindings, b)
	}

	if len(stale) > 0 {
		prune := s.redis.Pipeline()
		for _, connectionID := range dead {
			prune.Del(ctx, s.key(connectionID))
		}
		staleMembers := make([]interface{}, len(stale))
		for i, connectionID := range stale {
			staleMembers[i] = connectionID
		}
		prune.SRem(ctx, userKey, staleMembers...)
		if _, err := prune.Exec(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return bindings, nil
}

func (s *RedisStore) deleteBindingAndIndex(ctx context.Context, userID, connectionID string) error {
	_, err := deleteBindingLua.Run(
		ctx,
		s.redis,
		[]string{s.key(connectionID), s.userKey(userID)},
		connectionID,
	).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}
