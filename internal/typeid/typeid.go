package typeid

import "go.jetify.com/typeid/v2"

const (
	PrefixNode       = "node"
	PrefixConnection = "conn"
	PrefixSession    = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewNodeID() string       { return New(PrefixNode) }
func NewConnectionID() string { return New(PrefixConnection) }
func NewSessionID() string    { return New(PrefixSession) }
