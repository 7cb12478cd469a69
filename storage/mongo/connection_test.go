package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/poiesic/usageload/core"
	"github.com/poiesic/usageload/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// testURIEnv names the variable holding a MongoDB URI for integration tests.
const testURIEnv = "USAGELOAD_TEST_MONGODB_URI"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{
			name: "duplicate key write exception",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: user_data.Users index: _id_ dup key: { _id: \"u1\" }"},
			}},
			wantErr: storage.ErrDuplicateKey,
		},
		{
			name:    "network error label",
			err:     mongo.CommandError{Code: 6, Name: "HostUnreachable", Labels: []string{"NetworkError"}},
			wantErr: storage.ErrConnection,
		},
		{
			name:    "deadline exceeded",
			err:     fmt.Errorf("insert: %w", context.DeadlineExceeded),
			wantErr: storage.ErrConnection,
		},
		{
			name:    "client disconnected",
			err:     mongo.ErrClientDisconnected,
			wantErr: storage.ErrConnection,
		},
		{
			name: "document validation failure",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Index: 0, Code: 121, Message: "Document failed validation"},
			}},
			wantErr: storage.ErrWrite,
		},
		{
			name:    "unknown error",
			err:     errors.New("boom"),
			wantErr: storage.ErrWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, "u1")
			assert.ErrorIs(t, got, tt.wantErr)
		})
	}
}

func TestClassify_Canceled(t *testing.T) {
	got := classify(context.Canceled, "u1")
	assert.ErrorIs(t, got, context.Canceled)
	assert.NotErrorIs(t, got, storage.ErrWrite)
}

func TestOpen_InvalidTarget(t *testing.T) {
	_, err := Open(context.Background(), "mongodb://127.0.0.1:1", core.Target{Collection: "Users"})
	assert.ErrorIs(t, err, core.ErrInvalidTarget)
}

func TestOpen_InvalidURI(t *testing.T) {
	_, err := Open(context.Background(), "not-a-mongodb-uri", core.Target{Database: "user_data", Collection: "Users"})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrConnection)
}

func TestOpen_Unreachable(t *testing.T) {
	start := time.Now()
	_, err := Open(context.Background(),
		"mongodb://127.0.0.1:1/?directConnection=true",
		core.Target{Database: "user_data", Collection: "Users"},
		WithConnectTimeout(300*time.Millisecond),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrConnection)
	assert.True(t, storage.IsFatal(err))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestConnection_Integration(t *testing.T) {
	uri := os.Getenv(testURIEnv)
	if uri == "" {
		t.Skipf("%s not set", testURIEnv)
	}

	ctx := context.Background()
	target := core.Target{
		Database:   "usageload_test",
		Collection: fmt.Sprintf("users_%d", time.Now().UnixNano()),
	}

	conn, err := Open(ctx, uri, target, WithConnectTimeout(5*time.Second))
	require.NoError(t, err)
	defer func() {
		conn.collection.Drop(ctx)
		conn.Close(ctx)
	}()

	doc := &core.Document{
		ID: "u1",
		Fields: []core.Field{
			{Name: "age", Value: "30"},
			{Name: "device_info", Group: []core.Field{{Name: "device_model", Value: "Pixel"}}},
		},
	}
	require.NoError(t, conn.Insert(ctx, doc))

	err = conn.Insert(ctx, doc)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	var stored bson.D
	require.NoError(t, conn.collection.FindOne(ctx, bson.D{{Key: "_id", Value: "u1"}}).Decode(&stored))
	assert.Equal(t, storage.EncodeDocument(doc), stored)
}
