// internal/core/ports/database.go
package ports

import "context"

// Database is the part of the Postgres adapter the health endpoints need
type Database interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}
