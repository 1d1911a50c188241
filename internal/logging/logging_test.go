package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_InfofWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf))
	c.Infof("hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")
}

func TestConsole_DebugfSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf))
	c.Debugf("should not appear")
	assert.Empty(t, buf.String())
}

func TestConsole_DebugfEnabledWithOption(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(WithWriter(&buf), WithDebug(true))
	c.Debugf("visible now")
	assert.True(t, strings.Contains(buf.String(), "visible now"))
}

func TestNoop_NeverPanics(t *testing.T) {
	var l Logger = Noop{}
	l.Debugf("x")
	l.Infof("x")
	l.Warnf("x")
	l.Errorf("x")
}
