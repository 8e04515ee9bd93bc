// Package redis implements store.Store on Redis.
//
// Each record is one string value holding the encoded record, so a write
// replaces the previous state in a single SET with no field merge. A sorted
// set with every member at score zero indexes the job IDs lexicographically;
// scans page over it with ZRANGEBYLEX, which gives stable continuation
// tokens independent of the cursor semantics of SCAN.
//
// The caller owns the Redis client lifecycle. Close never closes it:
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	s := redis.New(client, redis.WithCodec(codec.JSON{}))
//	if err := s.Ping(ctx); err != nil { ... }
package redis
