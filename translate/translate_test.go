package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	assert.NotEmpty(t, Detect())
}

func TestUse(t *testing.T) {
	assert := assert.New(t)

	defer Use(Detect()...)

	selected := Use()
	assert.Equal(selected, Language())

	assert.Equal(Use("en-US"), Language())
	assert.Equal("channel 3: busy", From("channel %d: %v", 3, "busy"))

	err := Error("%v must be set", "Pin")
	assert.EqualError(err, "Pin must be set")
}
