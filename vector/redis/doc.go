// Package redis implements vector.Store on Redis 8+ vector search. Each
// collection is a key prefix of hashes plus one FLAT cosine index created
// lazily on first write.
package redis
