package store

import (
	"strings"
	"testing"
	"time"

	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripTasks() []models.Task {
	return []models.Task{
		{
			ID:            "a1",
			Title:         "Ship release",
			Description:   "tag and\npublish",
			Completed:     true,
			CompletedDate: "2025-08-11",
			Priority:      models.PriorityHigh,
			DueDate:       "2025-08-12",
			Tags:          []string{"work", "release"},
			CreatedDate:   "2025-08-10",
			CreatedTime:   "08:15",
			Subtasks:      []models.Subtask{{Label: "tag", Done: true}, {Label: "publish", Done: true}},
		},
		{
			ID:          "b2",
			Title:       "Water plants",
			Priority:    models.PriorityLow,
			CreatedDate: "2025-08-09",
		},
	}
}

func TestCodec_ExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			want := roundTripTasks()
			data, err := Encode(format, NewPayload(want, time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC), 1723456789000))
			require.NoError(t, err)

			got, err := Decode(format, data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCodec_JSONPayloadShape(t *testing.T) {
	data, err := Encode(FormatJSON, NewPayload(roundTripTasks()[1:], time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC), 42))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"exportDate": "2025-08-12T10:00:00Z"`)
	assert.Contains(t, s, `"lastKnownModifiedMs": 42`)
	assert.Contains(t, s, `"completedDate": null`)
	assert.Contains(t, s, `"subtasksDone": []`)
}

func TestCodec_AcceptsBareArray(t *testing.T) {
	raw := `[{"id":"1","title":"legacy","completed":false,"priority":"med","tags":["x"],"subtasks":["a","b"],"subtasksDone":[true]}]`
	tasks, err := Decode(FormatJSON, []byte(raw))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.PriorityMed, tasks[0].Priority)
	assert.Equal(t, []models.Subtask{{Label: "a", Done: true}, {Label: "b"}}, tasks[0].Subtasks)
}

func TestCodec_RejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		raw    string
	}{
		{name: "object without tasks", format: FormatJSON, raw: `{"foo": 1}`},
		{name: "not json", format: FormatJSON, raw: `tasks: nope`},
		{name: "empty", format: FormatJSON, raw: "  "},
		{name: "task without id", format: FormatJSON, raw: `[{"title":"x"}]`},
		{name: "title wrong type", format: FormatJSON, raw: `{"tasks":[{"id":"1","title":7}]}`},
		{name: "duplicate ids", format: FormatJSON, raw: `[{"id":"1","title":"a"},{"id":"1","title":"b"}]`},
		{name: "scalar yaml", format: FormatYAML, raw: "just a string\n"},
		{name: "bad toml", format: FormatTOML, raw: "tasks = [[["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.format, []byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrFormat)
		})
	}
}

func TestCodec_SchemaErrorNamesLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "wrapped payload", raw: `{"tasks":[{"id":"1","title":7}]}`, want: "/tasks/0/title"},
		{name: "bare array", raw: `[{"id":"1","title":"ok"},{"id":"2","title":false}]`, want: "/1/title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(FormatJSON, []byte(tt.raw))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "got %q, want location %q", err.Error(), tt.want)
			assert.NotContains(t, err.Error(), "expected array")
		})
	}
}

func TestCodec_UnquotedDates(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		raw    string
	}{
		{
			name:   "yaml",
			format: FormatYAML,
			raw: "tasks:\n" +
				"  - id: a\n" +
				"    title: Pay rent\n" +
				"    dueDate: 2025-08-12\n" +
				"    createdDate: 2025-08-01\n" +
				"    createdTime: \"09:30\"\n",
		},
		{
			name:   "toml",
			format: FormatTOML,
			raw: "[[tasks]]\n" +
				"id = \"a\"\n" +
				"title = \"Pay rent\"\n" +
				"dueDate = 2025-08-12\n" +
				"createdDate = 2025-08-01\n" +
				"createdTime = 09:30:00\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Decode(tt.format, []byte(tt.raw))
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			if got, want := tasks[0].DueDate, "2025-08-12"; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
			assert.Equal(t, "2025-08-01", tasks[0].CreatedDate)
			assert.Equal(t, "09:30", tasks[0].CreatedTime)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"tasks.json":      FormatJSON,
		"tasks.YAML":      FormatYAML,
		"/tmp/tasks.yml":  FormatYAML,
		"tasks.toml":      FormatTOML,
		"tasks":           FormatJSON,
		"notes.backup.md": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
