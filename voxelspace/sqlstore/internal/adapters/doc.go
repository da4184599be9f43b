// Package adapters provide database adapter implementations for the voxel store.
//
// The store works with pgxpool.Pool, sql.DB and sqlx.DB. Each adapter presents the same
// DBAdapter interface: plain queries and statements plus a transaction scope, so the store
// can write a beam row and its cube rows atomically with any of them.
package adapters
