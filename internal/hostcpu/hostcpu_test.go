package hostcpu

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	f := Detect()
	assert.Equal(t, runtime.GOARCH, f.Architecture)
}

func TestList(t *testing.T) {
	f := Features{HasSSE2: true, HasAVX2: true}
	assert.Equal(t, []string{"sse2", "avx2"}, f.List())

	assert.Empty(t, Features{}.List())
}
