package session

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// kv is the part of redis.Cmdable the store needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

const keyPrefix = "lentpath:session:"

// ErrBackendUnavailable means the stored values could not be fetched. The
// session must not be saved over, the values are still in Redis.
var ErrBackendUnavailable = errors.New("session backend unavailable")

// RedisStore is a sessions.Store keeping values in Redis. The cookie only
// carries the signed session id.
type RedisStore struct {
	client  kv
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

func NewRedisStore(client kv, keyPairs ...[]byte) *RedisStore {
	return &RedisStore{
		client: client,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 7,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}

	if err := securecookie.DecodeMulti(name, c.Value, &sess.ID, s.Codecs...); err != nil {
		return sess, err
	}

	payload, err := s.client.Get(r.Context(), keyPrefix+sess.ID).Result()
	if errors.Is(err, redis.Nil) {
		// expired in redis, start over with a fresh id
		sess.ID = ""
		return sess, nil
	}
	if err != nil {
		sess.ID = ""
		return sess, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if err := securecookie.DecodeMulti(name, payload, &sess.Values, s.Codecs...); err != nil {
		return sess, err
	}
	sess.IsNew = false

	return sess, nil
}

// Save writes the values to Redis and the id to the cookie. A negative MaxAge
// deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	ctx := r.Context()

	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.client.Del(ctx, keyPrefix+sess.ID).Err(); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	payload, err := securecookie.EncodeMulti(sess.Name(), sess.Values, s.Codecs...)
	if err != nil {
		return err
	}

	ttl := time.Duration(sess.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, keyPrefix+sess.ID, payload, ttl).Err(); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(sess.Name(), sess.ID, s.Codecs...)
	if err != nil {
		return err
	}

	http.SetCookie(w, sessions.NewCookie(sess.Name(), encoded, sess.Options))

	return nil
}
