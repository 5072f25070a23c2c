package lyrics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTimestamp(t *testing.T) {
	tests := []struct {
		line      string
		wantStamp string
		wantText  string
		wantOK    bool
	}{
		{"[00:01.00] 안녕", "[00:01.00] ", "안녕", true},
		{"[01:23.456]hello", "[01:23.456]", "hello", true},
		{"[3:07] 你好 ", "[3:07] ", "你好", true},
		{"no stamp", "", "no stamp", false},
		{"[ar:Someone]", "", "[ar:Someone]", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			stamp, text, ok := StripTimestamp(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStamp, stamp)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	d, err := ParseTimestamp("[01:02.50] ")
	require.NoError(t, err)
	assert.Equal(t, time.Minute+2500*time.Millisecond, d)

	d, err = ParseTimestamp("00:03:25")
	require.NoError(t, err)
	assert.Equal(t, 3250*time.Millisecond, d)

	_, err = ParseTimestamp("[abc]")
	assert.Error(t, err)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "[00:00.00] ", FormatTimestamp(0))
	assert.Equal(t, "[01:02.50] ", FormatTimestamp(time.Minute+2500*time.Millisecond))
	assert.Equal(t, "[10:00.01] ", FormatTimestamp(10*time.Minute+10*time.Millisecond))
}

func TestParseLRC(t *testing.T) {
	lrc := strings.Join([]string{
		"[ti:Song]",
		"[ar:Someone]",
		"[00:10.00]안녕",
		"[00:05.00][00:20.00]你好",
		"",
		"plain line",
	}, "\n")

	doc, err := ParseLRC(strings.NewReader(lrc), "track-1")
	require.NoError(t, err)

	assert.Equal(t, "track-1", doc.TrackID)
	assert.Equal(t, "안녕\n你好\nplain line", doc.Lyrics)
	assert.Equal(t, "[00:05.00] 你好\n[00:10.00] 안녕\n[00:20.00] 你好", doc.Subtitles)
}

func TestIsHiddenMarker(t *testing.T) {
	assert.True(t, IsHiddenMarker(" lyricshidden "))
	assert.False(t, IsHiddenMarker("lyrics hidden"))
}
