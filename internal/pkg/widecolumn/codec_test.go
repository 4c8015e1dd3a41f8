package widecolumn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedSchema = NewSchema("newsfeeds",
	[]string{"user_id", "created_at"},
	Field{Name: "user_id", Kind: Integer, Reverse: true},
	Field{Name: "created_at", Kind: Timestamp},
	Field{Name: "post_id", Kind: Integer, ColumnFamily: "cf"},
)

var nameSchema = NewSchema("names",
	[]string{"name", "seq"},
	Field{Name: "name", Kind: String},
	Field{Name: "seq", Kind: Integer},
	Field{Name: "note", Kind: String, ColumnFamily: "cf"},
)

func TestEncodeField(t *testing.T) {
	userID, _ := feedSchema.Field("user_id")
	createdAt, _ := feedSchema.Field("created_at")

	t.Run("pads integers to fixed width", func(t *testing.T) {
		raw, err := feedSchema.EncodeField(createdAt, int64(42))
		require.NoError(t, err)
		assert.Equal(t, "0000000000000042", raw)
	})

	t.Run("reverses after padding", func(t *testing.T) {
		raw, err := feedSchema.EncodeField(userID, uint64(1))
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000", raw)
	})

	t.Run("rejects negative integers", func(t *testing.T) {
		_, err := feedSchema.EncodeField(createdAt, int64(-1))
		assert.ErrorIs(t, err, ErrBadRowKey)
	})

	t.Run("rejects integers wider than the key width", func(t *testing.T) {
		raw, err := feedSchema.EncodeField(createdAt, MaxTimestamp)
		require.NoError(t, err)
		assert.Equal(t, "9999999999999999", raw)

		_, err = feedSchema.EncodeField(createdAt, MaxTimestamp+1)
		assert.ErrorIs(t, err, ErrBadRowKey)

		_, err = feedSchema.EncodeRowKey(Values{"user_id": uint64(1), "created_at": int64(1e17)}, false)
		assert.ErrorIs(t, err, ErrBadRowKey)
	})

	t.Run("rejects wrong type", func(t *testing.T) {
		_, err := feedSchema.EncodeField(createdAt, "12")
		assert.ErrorIs(t, err, ErrBadRowKey)
	})
}

func TestRowKeyRoundTrip(t *testing.T) {
	values := Values{"user_id": uint64(42), "created_at": int64(1700000000000001)}

	key, err := feedSchema.EncodeRowKey(values, false)
	require.NoError(t, err)
	assert.Equal(t, "2400000000000000:1700000000000001", key)

	decoded, err := feedSchema.DecodeRowKey(key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded["user_id"])
	assert.Equal(t, int64(1700000000000001), decoded["created_at"])
	assert.Equal(t, uint64(42), decoded.Uint64("user_id"))
}

func TestEncodeRowKeyMissingField(t *testing.T) {
	_, err := feedSchema.EncodeRowKey(Values{"user_id": 1}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRowKey)

	var rowKeyErr *RowKeyError
	require.ErrorAs(t, err, &rowKeyErr)
	assert.Equal(t, "created_at", rowKeyErr.Field)
}

func TestEncodeRowKeyPrefixTruncates(t *testing.T) {
	key, err := feedSchema.EncodeRowKey(Values{"user_id": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000", key)

	key, err = feedSchema.EncodeRowKey(Values{"created_at": 1}, true)
	require.NoError(t, err)
	assert.Equal(t, "", key)
}

func TestEncodeRowKeyRejectsSeparator(t *testing.T) {
	_, err := nameSchema.EncodeRowKey(Values{"name": "a:b", "seq": 1}, false)
	assert.ErrorIs(t, err, ErrBadRowKey)
}

func TestDecodeRowKeyPartial(t *testing.T) {
	values, err := nameSchema.DecodeRowKey("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", values["name"])
	_, ok := values["seq"]
	assert.False(t, ok)

	_, err = nameSchema.DecodeRowKey("a:1:2")
	assert.ErrorIs(t, err, ErrBadRowKey)
}

func TestDecodeRow(t *testing.T) {
	t.Run("empty columns means no row", func(t *testing.T) {
		values, err := feedSchema.DecodeRow("1000000000000000:0000000000000001", nil)
		require.NoError(t, err)
		assert.Nil(t, values)
	})

	t.Run("merges key and columns", func(t *testing.T) {
		cols, err := feedSchema.EncodeColumns(Values{"post_id": 7})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"cf:post_id": "0000000000000007"}, cols)

		values, err := feedSchema.DecodeRow("1000000000000000:0000000000000009", cols)
		require.NoError(t, err)
		assert.Equal(t, Values{"user_id": int64(1), "created_at": int64(9), "post_id": int64(7)}, values)
	})
}

func TestNewSchemaRejectsColumnInRowKey(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("bad", []string{"post_id"}, Field{Name: "post_id", Kind: Integer, ColumnFamily: "cf"})
	})
}
