package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetIntList returns deserialized list of integers stored by the key. Missing
// value is treated as an empty list.
func GetIntList(ctx storage.Context, key any) []int {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]int)
	}

	return []int{}
}

// AppendToIntList adds v to the end of the integer list stored by the key.
func AppendToIntList(ctx storage.Context, key any, v int) {
	list := GetIntList(ctx, key)
	list = append(list, v)
	SetSerialized(ctx, key, list)
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// NextID returns the value of the counter stored by the key and increments it.
// The first returned value is 0.
func NextID(ctx storage.Context, key any) int {
	var id int

	raw := storage.Get(ctx, key)
	if raw != nil {
		id = raw.(int)
	}

	storage.Put(ctx, key, id+1)

	return id
}

// Counter returns the value of the counter stored by the key.
func Counter(ctx storage.Context, key any) int {
	raw := storage.Get(ctx, key)
	if raw == nil {
		return 0
	}

	return raw.(int)
}
