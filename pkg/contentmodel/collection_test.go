package contentmodel_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/content-model/pkg/contentmodel"
)

func TestOrderedMap(t *testing.T) {
	m := contentmodel.NewOrderedMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("b", 4)

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.True(t, m.Has("a"))

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, m.Keys())

	var visited []string
	m.Range(func(key string, _ any) bool {
		visited = append(visited, key)
		return false
	})
	assert.Equal(t, []string{"b"}, visited)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"b":4,"c":3}`, string(data))

	empty, err := json.Marshal(contentmodel.NewOrderedMap())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestCollection(t *testing.T) {
	n := 0
	c := contentmodel.NewCollection(func() (any, error) {
		n++
		return n, nil
	})

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	item, err := c.CreateItem()
	require.NoError(t, err)
	assert.Equal(t, 1, item)
	assert.Equal(t, 0, c.Len())

	_, err = c.AddNew()
	require.NoError(t, err)
	c.Add(10)
	_, err = c.AddNew()
	require.NoError(t, err)
	assert.Equal(t, []any{2, 10, 3}, c.Items())

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(5))
	assert.Equal(t, []any{2, 3}, c.Items())
	assert.Equal(t, 3, c.At(1))

	data, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `[2,3]`, string(data))
}

func TestCollection_AddNewError(t *testing.T) {
	boom := errors.New("boom")
	c := contentmodel.NewCollection(func() (any, error) { return nil, boom })

	_, err := c.AddNew()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
