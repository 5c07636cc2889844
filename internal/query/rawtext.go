package query

import (
	"strconv"
	"strings"

	"github.com/josephgoksu/litedo/models"
)

// RawText is the fixed serialization searched by unrecognized key:value
// tokens: one "key:value" line per field in the order id, title,
// description, priority, duedate, createddate, createdtime, completed,
// completeddate, tags, subtasks. Lists are comma joined. The whole text is
// lowercased.
func RawText(t models.Task) string {
	fields := [][2]string{
		{"id", t.ID},
		{"title", t.Title},
		{"description", t.Description},
		{"priority", string(t.Priority)},
		{"duedate", t.DueDate},
		{"createddate", t.CreatedDate},
		{"createdtime", t.CreatedTime},
		{"completed", strconv.FormatBool(t.Completed)},
		{"completeddate", t.CompletedDate},
		{"tags", strings.Join(t.Tags, ",")},
		{"subtasks", strings.Join(t.SubtaskLabels(), ",")},
	}
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f[0])
		b.WriteByte(':')
		b.WriteString(f[1])
	}
	return strings.ToLower(b.String())
}
