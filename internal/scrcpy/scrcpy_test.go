package scrcpy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgsOmitsUnsetFlags(t *testing.T) {
	args := BuildArgs("serial1", 1, Options{})
	assert.Empty(t, args)

	args = BuildArgs("serial1", 1, Options{BitRate: "8M"})
	assert.Equal(t, []string{"--video-bit-rate", "8M"}, args)
	assert.NotContains(t, args, "--max-size")
}

func TestBuildArgsSerialOnlyWithMultipleDevices(t *testing.T) {
	single := BuildArgs("serial1", 1, Options{MaxSize: "1280"})
	assert.NotContains(t, single, "--serial")

	multi := BuildArgs("serial1", 2, Options{MaxSize: "1280"})
	assert.Equal(t, []string{"--max-size", "1280", "--serial", "serial1"}, multi)
}

func TestBuildArgsExtraArgsComeFirst(t *testing.T) {
	args := BuildArgs("serial1", 3, Options{
		MaxSize:   "1024",
		BitRate:   "2M",
		ExtraArgs: []string{"--crop", "1600:900:0:0", "--stay-awake"},
	})
	assert.Equal(t, []string{
		"--crop", "1600:900:0:0", "--stay-awake",
		"--max-size", "1024",
		"--video-bit-rate", "2M",
		"--serial", "serial1",
	}, args)
}

func TestBuildArgsPassesMalformedValuesVerbatim(t *testing.T) {
	// no range validation here: scrcpy rejects bad values itself
	args := BuildArgs("serial1", 1, Options{MaxSize: "banana", BitRate: "-3"})
	assert.Equal(t, []string{"--max-size", "banana", "--video-bit-rate", "-3"}, args)
}

func TestParseVersion(t *testing.T) {
	out := "scrcpy 3.3.1 <https://github.com/Genymobile/scrcpy>\n\ndependencies:\n - SDL 2.30\n"
	assert.Equal(t, "3.3.1", parseVersion(out))

	assert.Equal(t, "unknown", parseVersion(""))
	assert.Equal(t, "unknown", parseVersion("scrcpy\n"))
}

func TestVersionMissingBinary(t *testing.T) {
	_, err := Version("definitely-not-a-scrcpy-binary")
	assert.Error(t, err)
}

func TestStartMissingBinary(t *testing.T) {
	l := NewLauncher("definitely-not-a-scrcpy-binary")

	err := l.Start(nil, nil)
	require.Error(t, err)
	assert.False(t, l.Running())
}

func TestStopWithoutSessionIsNoop(t *testing.T) {
	l := NewLauncher("")
	assert.NoError(t, l.Stop())
}

func TestTailLinesKeepsLastN(t *testing.T) {
	in := strings.NewReader("a\nb\n\nc\nd\ne\n")
	assert.Equal(t, []string{"c", "d", "e"}, tailLines(in, 3))

	assert.Nil(t, tailLines(strings.NewReader(""), 3))
}
