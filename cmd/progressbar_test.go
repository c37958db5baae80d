package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/discogs-scraper/internal/progress"
)

func TestJSONProgressWritesOneEventPerLine(t *testing.T) {
	var out bytes.Buffer
	reporter, err := newProgressReporter("json", &out)
	require.NoError(t, err)

	tracker := progress.NewProgressTracker()
	tracker.AddListener(reporter.listen)

	tracker.UpdateProgress(progress.StageDiscovering, 5, "Loading listing page")
	tracker.UpdateEntityProgress(progress.EntityDetails{Index: 1, Total: 2, Current: "https://www.discogs.com/artist/2-B"}, 10, 90)
	reporter.finish()

	var lines []map[string]any
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)

	assert.Equal(t, "discovering", lines[0]["stage"])
	assert.Equal(t, "Loading listing page", lines[0]["message"])
	_, err = time.Parse(time.RFC3339, lines[0]["timestamp"].(string))
	assert.NoError(t, err)

	assert.Equal(t, "extracting", lines[1]["stage"])
	assert.Equal(t, 50.0, lines[1]["progress"])
	details, ok := lines[1]["entityDetails"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://www.discogs.com/artist/2-B", details["current"])
}

func TestNewProgressReporterModes(t *testing.T) {
	reporter, err := newProgressReporter("bar", &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &progressBar{}, reporter)

	_, err = newProgressReporter("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown progress mode")
}
