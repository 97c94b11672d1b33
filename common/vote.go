package common

import "github.com/nspcc-dev/neo-go/pkg/interop/storage"

// Vote records the vote of the participant for the decision with specific
// 'id' under the given storage prefix. It returns false if participant has
// already voted for that decision, records are never removed.
func Vote(ctx storage.Context, prefix byte, id, from []byte) bool {
	key := voteKey(prefix, id, from)
	if storage.Get(ctx, key) != nil {
		return false
	}

	storage.Put(ctx, key, []byte{1})

	return true
}

// voteKey composes storage key of the vote. Participant part has fixed length
// (script hash), so keys of different decisions never collide.
func voteKey(prefix byte, id, from []byte) []byte {
	key := append([]byte{prefix}, id...)
	return append(key, from...)
}
