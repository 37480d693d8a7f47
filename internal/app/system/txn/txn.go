// internal/app/system/txn/txn.go

// Package txn wraps Mongo multi-document transactions. Standalone servers
// (and some hosted DocumentDB flavors) reject transactions outright;
// IsNotSupported lets callers detect that and fall back to sequenced
// writes instead of failing the operation.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Run executes fn inside a multi-document transaction. The context passed
// to fn is session-bound; every store call inside fn must use it for the
// writes to commit or abort together.
func Run(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	return err
}

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions at all (not a replica set member, sessions
// unsupported). Callers should treat this as "use the fallback path",
// never as an operation failure.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			// IllegalOperation variants raised by standalone servers.
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	hasTxn := strings.Contains(msg, "transaction")
	hasSession := strings.Contains(msg, "session")

	switch {
	case hasTxn && strings.Contains(msg, "replica set"):
		return true
	case hasSession && strings.Contains(msg, "not supported"):
		return true
	case hasTxn && hasSession:
		return true
	case strings.Contains(msg, "illegal operation"):
		return true
	}
	return false
}
