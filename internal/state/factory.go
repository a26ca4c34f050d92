package state

import "github.com/redis/go-redis/v9"

// Open picks the store implementation for an embedding till client:
// Redis when an address is given (shared terminals), the state file when
// a path is given, in-memory otherwise. The server binary does not hold
// client state; this is wiring for the cart/restock side.
func Open(redisAddr, filePath string) Store {
	if redisAddr != "" {
		return NewRedisStore(redis.NewClient(&redis.Options{Addr: redisAddr}), "pos:")
	}
	if filePath != "" {
		return NewFileStore(filePath)
	}
	return NewMemoryStore()
}
