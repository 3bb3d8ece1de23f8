package biz

import (
	"context"
	"testing"

	"statement-service/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTableLookup(t *testing.T) {
	table := newTestPriceTable()
	ctx := context.Background()

	t.Run("registered counter", func(t *testing.T) {
		price, err := table.Lookup(ctx, "GAUGE", "storage_gb")
		require.NoError(t, err)
		assert.Equal(t, int64(100), price)
	})

	t.Run("unknown counter name", func(t *testing.T) {
		_, err := table.Lookup(ctx, "GAUGE", "gpu_hour")
		require.Error(t, err)
	})

	t.Run("unknown counter type", func(t *testing.T) {
		_, err := table.Lookup(ctx, "CUMULATIVE", "storage_gb")
		require.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		empty := NewPriceTable(&conf.Bootstrap{})
		_, err := empty.Lookup(ctx, "GAUGE", "storage_gb")
		require.Error(t, err)
	})
}

func TestPriceTableAll(t *testing.T) {
	table := newTestPriceTable()

	all := table.All()
	require.Equal(t, int64(100), all["GAUGE"]["storage_gb"])

	// 返回的是拷贝，修改不影响内部表
	all["GAUGE"]["storage_gb"] = 999
	price, err := table.Lookup(context.Background(), "GAUGE", "storage_gb")
	require.NoError(t, err)
	assert.Equal(t, int64(100), price)
}
