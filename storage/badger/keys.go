package badger

import (
	"strings"

	"github.com/poiesic/usageload/core"
)

// documentPrefix starts every document key.
const documentPrefix = "doc"

// makeCollectionPrefix generates the key prefix shared by every document of a target.
// Format: doc:<database>/<collection>:
func makeCollectionPrefix(target core.Target) []byte {
	var b strings.Builder
	b.Grow(len(documentPrefix) + len(target.Database) + len(target.Collection) + 3)
	b.WriteString(documentPrefix)
	b.WriteByte(':')
	b.WriteString(target.Database)
	b.WriteByte('/')
	b.WriteString(target.Collection)
	b.WriteByte(':')
	return []byte(b.String())
}

// makeDocumentKey generates the key for a document identifier within a target.
// Format: doc:<database>/<collection>:<id>
func makeDocumentKey(target core.Target, id string) []byte {
	prefix := makeCollectionPrefix(target)
	buf := make([]byte, len(prefix)+len(id))
	offset := copy(buf, prefix)
	copy(buf[offset:], id)
	return buf
}
