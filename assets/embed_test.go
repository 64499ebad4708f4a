package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestions(t *testing.T) {
	qs := Questions()
	assert.Len(t, qs, 10)
	for _, q := range qs {
		assert.NotEmpty(t, q)
	}
	assert.Equal(t, "Сколько раз ты улыбался?", qs[0])
}
