package safety

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type panickingLayer struct{}

func (panickingLayer) Score(context.Context, string) Score {
	panic("boom")
}

func TestSafeScore_RecoversPanic(t *testing.T) {
	got := SafeScore(context.Background(), panickingLayer{}, "/tmp/x")
	assert.Equal(t, None, got)
}

func TestSafeScore_NilLayer(t *testing.T) {
	got := SafeScore(context.Background(), nil, "/tmp/x")
	assert.Equal(t, None, got)
}

func TestPathPolicy_ProtectsSystemPaths(t *testing.T) {
	p := NewPathPolicy()
	s := p.Score(context.Background(), "/etc/passwd")
	assert.Equal(t, ProtectionCritical, s.ProtectionLevel)
}

func TestPathPolicy_ProtectsCustomGlobs(t *testing.T) {
	p := NewPathPolicy("/home/user/important/*")
	s := p.Score(context.Background(), "/home/user/important/file.txt")
	assert.Equal(t, ProtectionHigh, s.ProtectionLevel)
}

func TestPathPolicy_UnknownPathIsNone(t *testing.T) {
	p := NewPathPolicy()
	s := p.Score(context.Background(), "/home/user/Downloads/movie.mp4")
	assert.Equal(t, ProtectionNone, s.ProtectionLevel)
}
