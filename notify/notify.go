// Package notify is the fire-and-forget notification relay. Events inform a
// single user (new submission, approval, rejection); delivery is best-effort
// with no guarantee.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Event names emitted by the engine.
const (
	EventNewTask       = "new_task"
	EventNewSubmission = "new_submission"
	EventTaskApproved  = "task_approved"
	EventTaskRejected  = "task_rejected"
	EventWithdrawal    = "withdrawal_update"
	EventAccountStatus = "account_status_changed"
)

// Emitter delivers an event to a user. Implementations must not block the
// caller on delivery failures.
type Emitter interface {
	Emit(userID uint, event string, payload interface{})
}

// FromEnv returns a Redis-backed emitter when NOTIFY_REDIS_ADDR is set,
// otherwise a log emitter.
func FromEnv() Emitter {
	addr := strings.TrimSpace(os.Getenv("NOTIFY_REDIS_ADDR"))
	if addr == "" {
		return LogEmitter{}
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("NOTIFY_REDIS_PASS"); p != "" {
		opts.Password = p
	}
	rc := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Printf("[notify] redis ping failed, falling back to log emitter: %v", err)
		return LogEmitter{}
	}
	return &RedisEmitter{client: rc}
}

// LogEmitter writes events to the process log. Default relay in development.
type LogEmitter struct{}

func (LogEmitter) Emit(userID uint, event string, payload interface{}) {
	b, _ := json.Marshal(payload)
	log.Printf("[notify] user=%d event=%s payload=%s", userID, event, b)
}

// RedisEmitter publishes events on a per-user pub/sub channel so interested
// frontends can subscribe for realtime updates.
type RedisEmitter struct {
	client *redis.Client
}

func (e *RedisEmitter) Emit(userID uint, event string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
		"at":      time.Now().Unix(),
	})
	if err != nil {
		return
	}
	channel := fmt.Sprintf("taskapp:events:%d", userID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.client.Publish(ctx, channel, msg).Err(); err != nil {
			log.Printf("[notify] publish failed channel=%s: %v", channel, err)
		}
	}()
}
