package widecolumn

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 需要设置 FEEDCORE_TEST_MONGO_URI 才会运行
func newMongoTable(t *testing.T, schema *Schema) *Table {
	t.Helper()
	uri := os.Getenv("FEEDCORE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FEEDCORE_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("feedcore_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	table := NewTable(schema, NewMongoBackend(db), true)
	require.NoError(t, table.CreateTable(context.Background()))
	return table
}

func TestMongoTableScan(t *testing.T) {
	ctx := context.Background()
	table := newMongoTable(t, feedSchema)
	seedFeeds(t, table)

	rows, err := table.Scan(ctx, ScanOptions{Prefix: []any{1}, Reverse: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, createdAts(rows))

	rows, err = table.Scan(ctx, ScanOptions{Start: []any{1, 2}, Stop: []any{1, 4}})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, createdAts(rows))

	require.NoError(t, table.Put(ctx, Values{"user_id": 1, "created_at": 1, "post_id": 99}))
	row, err := table.Get(ctx, Values{"user_id": 1, "created_at": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(99), row.Int64("post_id"))

	require.NoError(t, table.WithBatch(ctx, func(b *Batch) error {
		return b.Put(Values{"user_id": 3, "created_at": 1, "post_id": 1})
	}))
	n, err := table.CountRows(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
