package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alanpramil7/ytscout/internal/yt"
)

var sampleRows = []yt.SearchRow{
	{VideoID: "v1", VideoTitle: "Cats, compiled", ChannelID: "UC1", ChannelTitle: "Cats",
		PublishedTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	{VideoID: "v2", VideoTitle: "More cats", ChannelID: "UC1", ChannelTitle: "Cats"},
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatTable, "table": FormatTable, "CSV": FormatCSV, " json ": FormatJSON}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"video_id", "video_title", "channel_id", "channel_title", "published_time"}, records[0])
	assert.Equal(t, []string{"v1", "Cats, compiled", "UC1", "Cats", "2024-01-02T03:04:05Z"}, records[1])
	assert.Equal(t, "", records[2][4])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleRows))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "v1", decoded[0]["video_id"])
	assert.Equal(t, "Cats, compiled", decoded[0]["video_title"])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write[yt.CommentRow](&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	long := strings.Repeat("meow ", 40)
	rows := append([]yt.SearchRow{}, sampleRows...)
	rows[1].VideoTitle = long

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, rows))

	out := buf.String()
	assert.Contains(t, out, "video_id")
	assert.Contains(t, out, "Cats, compiled")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.TrimSpace(long))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestUpsertModels(t *testing.T) {
	rows := []yt.CommentRow{{ID: "c1", TextOriginal: "hi"}, {ID: ""}, {ID: "c2", ParentID: "c1"}}

	models := UpsertModels(rows)
	require.Len(t, models, 2)

	first, ok := models[0].(*mongo.ReplaceOneModel)
	require.True(t, ok)
	assert.Equal(t, bson.M{"_id": "c1"}, first.Filter)
	assert.Equal(t, rows[0], first.Replacement)
	require.NotNil(t, first.Upsert)
	assert.True(t, *first.Upsert)

	second := models[1].(*mongo.ReplaceOneModel)
	assert.Equal(t, bson.M{"_id": "c2"}, second.Filter)
}

func TestUpsertModelsEmpty(t *testing.T) {
	assert.Empty(t, UpsertModels[yt.VideoRow](nil))
}
