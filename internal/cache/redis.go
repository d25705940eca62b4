package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/resumine/resumine/internal/model"
)

const (
	linkTTL    = time.Hour
	sessionTTL = 5 * time.Minute
)

func linkKey(slug string) string {
	return "public:link:" + slug
}

func sessionKey(token string) string {
	return "session:" + token
}

// Redis caches resolved public links and session lookups in front of the
// relational store. Every method is best effort, callers fall through to
// the store on a miss or an error.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &Redis{client: client}, nil
}

// GetPublicLink returns the cached link for a slug, or (nil, nil) on a miss.
func (r *Redis) GetPublicLink(ctx context.Context, slug string) (*model.PublicLink, error) {
	res := r.client.Get(ctx, linkKey(slug))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	link := &model.PublicLink{}
	if err := json.Unmarshal(buf, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (r *Redis) SetPublicLink(ctx context.Context, link *model.PublicLink) error {
	buf, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, linkKey(link.Slug), buf, linkTTL).Err()
}

func (r *Redis) DeletePublicLink(ctx context.Context, slug string) error {
	return r.client.Del(ctx, linkKey(slug)).Err()
}

// GetSessionUser returns the cached user id for a session token, or ""
// on a miss.
func (r *Redis) GetSessionUser(ctx context.Context, token string) (string, error) {
	res := r.client.Get(ctx, sessionKey(token))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return "", nil
		}
		return "", res.Err()
	}

	return res.Val(), nil
}

func (r *Redis) SetSessionUser(ctx context.Context, token, userID string) error {
	return r.client.Set(ctx, sessionKey(token), userID, sessionTTL).Err()
}
