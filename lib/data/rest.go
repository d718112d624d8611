package data

import (
	"context"
	"fmt"
	"net/url"
)

// RESTWriter is the slice of clients.RESTClient the mutation repositories need
type RESTWriter interface {
	Get(ctx context.Context, path string, query url.Values, result interface{}) error
	Post(ctx context.Context, path string, body, result interface{}) error
	Patch(ctx context.Context, path string, body, result interface{}) error
	Put(ctx context.Context, path string, body, result interface{}) error
}

// DetailPath appends a record id to a collection path: /users/ + 7 -> /users/7/
func DetailPath(collection string, id int64) string {
	return fmt.Sprintf("%s%d/", collection, id)
}
