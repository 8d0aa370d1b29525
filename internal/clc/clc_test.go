package clc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefine(t *testing.T) {
	assert.Equal(t, "#define TYPE int\n", Define("TYPE", "int"))
	assert.Equal(t, "#define SEGMENT_SIZE 128\n", Define("SEGMENT_SIZE", 128))
}

func TestRender(t *testing.T) {
	body := "__kernel void k(__global TYPE *b) {}\n"

	assert.Equal(t, body, Render(body))

	got := Render(body, Define("TYPE", "float"), Define("SEGMENT_SIZE", 64))
	want := "#define TYPE float\n#define SEGMENT_SIZE 64\n" + body
	assert.Equal(t, want, got)
}
