package sstable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePartitionKeyRoundTrip(t *testing.T) {
	tbl := simpleTable()
	key, err := EncodePartitionKey(tbl, []string{"7"})
	require.NoError(t, err)

	cols, err := DecodePartitionKey(tbl, key)
	require.NoError(t, err)
	require.Equal(t, int64(7), cols["id"].Int64)
}

func TestEncodePartitionKeyWrongArity(t *testing.T) {
	_, err := EncodePartitionKey(simpleTable(), []string{"1", "2"})
	require.Error(t, err)
}

func TestDecodePartitionKeyWrongComponentCount(t *testing.T) {
	twoPartKeys := simpleTable()
	twoPartKeys.PartitionKeys = []string{"id", "name"}
	key, err := EncodePartitionKey(twoPartKeys, []string{"1", "alice"})
	require.NoError(t, err)

	_, err = DecodePartitionKey(simpleTable(), key)
	require.Error(t, err)
}
