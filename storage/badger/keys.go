package badger

// Key layout for the two logical stores sharing one database: the tree
// snapshot lives under a constant singleton key, media blobs under a
// prefixed key per identifier.
const (
	treeSnapshotKey = "tree:main"
	mediaKeyPrefix  = "media:"
)

// makeMediaKey generates the key for a media blob by identifier.
func makeMediaKey(id string) []byte {
	return []byte(mediaKeyPrefix + id)
}

// mediaIDFromKey recovers the identifier from a media key.
func mediaIDFromKey(key []byte) string {
	return string(key[len(mediaKeyPrefix):])
}
