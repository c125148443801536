package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Used when the caller passes no timeout
const defaultTimeout = 10 * time.Second

const appName = "fitnote-planner"

// clientOptions builds the client settings. opTimeout bounds every operation the client runs.
func clientOptions(uri string, opTimeout time.Duration) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetAppName(appName).
		SetTimeout(opTimeout).
		SetMaxPoolSize(10)
}

// ConnectDB connects to MongoDB at uri and pings the primary before returning.
// timeout bounds the connect, the ping and each later operation; <= 0 means 10s.
func ConnectDB(uri string, timeout time.Duration) (*mongo.Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions(uri, timeout))
	if err != nil {
		return nil, err
	}

	// Connect does not talk to the server; ping so a bad URI fails at startup
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), timeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}
