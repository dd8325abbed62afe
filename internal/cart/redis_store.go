package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// RedisStore mirrors carts to redis, one JSON document per username. Writes
// happen under the key before the refreshed cart is returned, so the stored
// state is always the one the caller sees (confirm-then-apply).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the given address and pings it before returning.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Redis connection successful")

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(username string) string {
	return "cart:" + username
}

func (s *RedisStore) fetch(ctx context.Context, username string) (*Cart, error) {
	raw, err := s.client.Get(ctx, key(username)).Result()
	if err == redis.Nil {
		return New(username), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("corrupt cart payload for %s: %w", username, err)
	}
	return &c, nil
}

func (s *RedisStore) save(ctx context.Context, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(c.Username), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, username string) (*Cart, error) {
	return s.fetch(ctx, username)
}

func (s *RedisStore) Add(ctx context.Context, username string, p models.Product) (*Cart, error) {
	c, err := s.fetch(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(p, 1); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) UpdateQuantity(ctx context.Context, username, code string, quantity int) (*Cart, error) {
	c, err := s.fetch(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateQuantity(code, quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) Remove(ctx context.Context, username, code string) (*Cart, error) {
	c, err := s.fetch(ctx, username)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(code)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) Clear(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
