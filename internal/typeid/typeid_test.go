package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratedIDsCarryPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewNodeID(), PrefixNode+"_"))
	assert.True(t, strings.HasPrefix(NewSessionID(), PrefixSession+"_"))

	conn := NewConnectionID()
	assert.True(t, strings.HasPrefix(conn, PrefixConnection+"_"))
	assert.NotEqual(t, conn, NewConnectionID())
}
