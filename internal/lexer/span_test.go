package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharSpan(t *testing.T) {
	assert.True(t, NoLoc().IsNoLoc())
	assert.False(t, CharSpan{}.IsNoLoc())
	assert.NotEqual(t, NoLoc(), CharSpan{})
	assert.Equal(t, NoLoc(), NoLoc())

	assert.Equal(t, "CharSpan(.)", NoLoc().String())
	assert.Equal(t, "CharSpan(3:7)", CharSpan{3, 7}.String())
	assert.Equal(t, "CharSpan(0:0)", CharSpan{}.String())

	assert.Equal(t, 4, CharSpan{3, 7}.Len())
	assert.Zero(t, NoLoc().Len())
}
