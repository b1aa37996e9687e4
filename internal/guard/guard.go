// Package guard impede que a mesma submissão de upload rode duas vezes em paralelo.
// Fica desligado por padrão: sem ele, submissões sobrepostas não são serializadas.
package guard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInFlight indica submissão idêntica ainda em andamento.
var ErrInFlight = errors.New("guard: submissão idêntica em andamento")

// Guard reserva uma chave enquanto a submissão está em voo.
type Guard interface {
	Acquire(ctx context.Context, parts ...string) (release func(), err error)
}

// Noop nunca bloqueia.
type Noop struct{}

func (Noop) Acquire(ctx context.Context, parts ...string) (func(), error) {
	return func() {}, nil
}

// RedisGuard usa SET NX com TTL; o TTL libera chaves de processos que caíram.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisGuard{client: client, ttl: ttl, prefix: "galeria:submit:"}
}

// Acquire devolve ErrInFlight se a chave já estiver reservada.
func (g *RedisGuard) Acquire(ctx context.Context, parts ...string) (func(), error) {
	key := g.prefix + Key(parts...)

	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInFlight
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = g.client.Del(ctx, key).Err()
	}, nil
}

// Key gera identificador estável para as partes informadas.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
