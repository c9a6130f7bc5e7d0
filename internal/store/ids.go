package store

import (
	"math/rand/v2"
	"strings"
)

const idAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
const idTokenLen = 5

// ID tags, one per entity kind. The token format (tag, dash, five random
// characters) is what the partners read out loud over the phone, so the
// alphabet drops lookalikes such as 0/O and 1/I/L.
const (
	TagTransaction = "TR"
	TagOrder       = "OS"
	TagQuote       = "ORC"
	TagCatalog     = "IT"
	TagCustomer    = "CLI"
)

// NewID returns a short tagged record id, e.g. "OS-7KQ2M".
func NewID(tag string) string {
	var sb strings.Builder
	sb.Grow(len(tag) + 1 + idTokenLen)
	sb.WriteString(tag)
	sb.WriteByte('-')
	for i := 0; i < idTokenLen; i++ {
		sb.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return sb.String()
}
