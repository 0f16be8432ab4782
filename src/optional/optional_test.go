package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  Field[string]   `json:"name"`
	Count Field[int]      `json:"count"`
	Tags  Field[[]string] `json:"tags"`
}

func TestField_Unmarshal(t *testing.T) {
	t.Run("absent key stays unset", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{}`), &d))
		assert.True(t, d.Name.IsUnset())
		assert.True(t, d.Count.IsUnset())
		assert.False(t, d.Tags.Present())
	})

	t.Run("null key is null", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"name":null,"count":null}`), &d))
		assert.True(t, d.Name.IsNull())
		assert.True(t, d.Count.Present())
		assert.False(t, d.Count.IsSet())
	})

	t.Run("value is set", func(t *testing.T) {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(`{"name":"thread","count":0,"tags":[]}`), &d))
		v, ok := d.Name.Get()
		assert.True(t, ok)
		assert.Equal(t, "thread", v)
		assert.Equal(t, 0, d.Count.OrElse(7))
		tags, ok := d.Tags.Get()
		assert.True(t, ok)
		assert.NotNil(t, tags)
	})

	t.Run("type mismatch is an error", func(t *testing.T) {
		var d doc
		assert.Error(t, json.Unmarshal([]byte(`{"count":"x"}`), &d))
	})
}

func TestField_Coalesce(t *testing.T) {
	var f Field[int]
	f.Coalesce(NullOf[int]())
	assert.True(t, f.IsNull())

	f.Coalesce(Of(3))
	assert.Equal(t, 3, f.OrElse(0))

	f.Coalesce(Of(9))
	assert.Equal(t, 3, f.OrElse(0), "a set value survives")
}

func TestField_Marshal(t *testing.T) {
	b, err := json.Marshal(doc{Name: Of("a"), Count: NullOf[int]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a","count":null,"tags":null}`, string(b))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Field[string]{}, Field[string]{}))
	assert.True(t, Equal(Of("x"), Of("x")))
	assert.False(t, Equal(Of("x"), Of("y")))
	assert.False(t, Equal(Field[string]{}, NullOf[string]()))
	assert.False(t, Equal(NullOf[bool](), Of(false)))
}

func TestFromPtr(t *testing.T) {
	assert.True(t, FromPtr[int](nil).IsNull())
	n := 4
	assert.Nil(t, NullOf[int]().Ptr())
	assert.Equal(t, &n, FromPtr(&n).Ptr())
}
