package redis

import (
	"encoding/json"
	"testing"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/internal/repository/redis/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductKeys(t *testing.T) {
	assert.Equal(t, "product:42", productKey(42))
	assert.Equal(t, []string{"product:1", "product:2"}, buildProductCacheKeys([]int64{1, 2}))
}

func TestRedisValueToBytes(t *testing.T) {
	data, err := redisValueToBytes("abc", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	data, err = redisValueToBytes([]byte("xyz"), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("xyz"), data)

	data, err = redisValueToBytes(nil, "k")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = redisValueToBytes(12, "k")
	assert.Error(t, err)
}

func TestCachedProductKeepsSnapshotFields(t *testing.T) {
	conv := converter.ProductConverterImpl{}
	catID := int64(3)
	slug := "fruits"
	product := domain.Product{
		ID: 7, Name: "apple", Weight: 100, UnitOfMeasurement: domain.UnitGram, Kcal: 52,
		CategoryID: &catID, CategorySlug: &slug,
	}

	data, err := json.Marshal(conv.ToRedisModel(&product))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"apple","weight":100,"unit_of_measurement":"гр","kcal":52,"category_id":3,"category_slug":"fruits"}`, string(data))

	var model converter.ProductRedisModel
	require.NoError(t, json.Unmarshal(data, &model))
	assert.Equal(t, product, *conv.ToEntity(&model))
}
