package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceNormalize(t *testing.T) {
	in := NewResource{
		Title: "  Go Tour ",
		Type:  "\ttutorial\n",
		Link:  " https://go.dev/tour ",
		Notes: "  basics  ",
	}
	got := in.Normalize()

	assert.Equal(t, "Go Tour", got.Title)
	assert.Equal(t, "tutorial", got.Type)
	assert.Equal(t, "https://go.dev/tour", got.Link)
	assert.Equal(t, "basics", got.Notes)
	assert.Equal(t, StatusPlanned, got.Status)
	assert.Equal(t, PriorityMedium, got.Priority)
	assert.Equal(t, "  Go Tour ", in.Title, "receiver must not change")
}

func TestNewResourceValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      NewResource
		wantErr error
	}{
		{"valid", NewResource{Title: "T", Type: "book"}, nil},
		{"missing title", NewResource{Title: "   ", Type: "book"}, ErrValidation},
		{"missing type", NewResource{Title: "T", Type: ""}, ErrValidation},
		{"unknown status", NewResource{Title: "T", Type: "book", Status: "done"}, ErrInvalidStatus},
		{"unknown priority", NewResource{Title: "T", Type: "book", Priority: "urgent"}, ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Normalize().Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, ErrValidation), "every create failure is a validation error")
		})
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 3, PriorityRank(PriorityHigh))
	assert.Equal(t, 2, PriorityRank(PriorityMedium))
	assert.Equal(t, 1, PriorityRank(PriorityLow))
	assert.Equal(t, 0, PriorityRank("urgent"))
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Planned", FormatStatus(StatusPlanned))
	assert.Equal(t, "In progress", FormatStatus(StatusInProgress))
	assert.Equal(t, "Completed", FormatStatus(StatusCompleted))
	assert.Equal(t, "archived", FormatStatus("archived"))
}

func TestResourceJSON(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 30, 0, 123000000, time.UTC)
	r := Resource{
		ID:        7,
		Title:     "Rust Book",
		Type:      "book",
		Link:      "https://doc.rust-lang.org/book/",
		Status:    StatusPlanned,
		Priority:  PriorityHigh,
		Notes:     "chapters 1-4",
		CreatedAt: created,
	}

	t.Run("writes ISO-8601 timestamps and fixed key order", func(t *testing.T) {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Equal(t,
			`{"id":7,"title":"Rust Book","type":"book","link":"https://doc.rust-lang.org/book/","status":"planned","priority":"high","notes":"chapters 1-4","createdAt":"2024-06-01T12:30:00.123Z"}`,
			string(data))
	})

	t.Run("decodes what it writes", func(t *testing.T) {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		var got Resource
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, r, got)
	})

	t.Run("unknown fields pass through", func(t *testing.T) {
		in := `{"id":1,"title":"A","type":"b","status":"planned","priority":"low","createdAt":"2024-01-01T00:00:00.000Z","tags":["x","y"],"author":"k"}`
		var got Resource
		require.NoError(t, json.Unmarshal([]byte(in), &got))
		assert.Equal(t, []string{"author", "tags"}, got.ExtraFields())

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"tags":["x","y"]`)
		assert.Contains(t, string(out), `"author":"k"`)
	})

	t.Run("badly typed known field is kept verbatim", func(t *testing.T) {
		in := `{"id":"abc","title":"A","type":"b","createdAt":"yesterday"}`
		var got Resource
		require.NoError(t, json.Unmarshal([]byte(in), &got))
		assert.Equal(t, int64(0), got.ID)
		assert.True(t, got.CreatedAt.IsZero())

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"id":"abc"`)
		assert.Contains(t, string(out), `"createdAt":"yesterday"`)
	})

	t.Run("accepts float ids and timestamps without millis", func(t *testing.T) {
		in := `{"id":3.0,"title":"A","type":"b","createdAt":"2024-01-01T00:00:00Z"}`
		var got Resource
		require.NoError(t, json.Unmarshal([]byte(in), &got))
		assert.Equal(t, int64(3), got.ID)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got.CreatedAt)
	})

	t.Run("missing fields stay missing and nulls stay null", func(t *testing.T) {
		tests := []struct {
			name string
			in   string
		}{
			{"no link, notes, or createdAt", `{"id":1,"title":"A","type":"b","status":"planned","priority":"low"}`},
			{"null notes", `{"id":2,"title":"B","type":"c","notes":null}`},
			{"no id", `{"title":"C","type":"d","link":""}`},
			{"null id and title", `{"id":null,"title":null,"type":"e"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var got Resource
				require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
				out, err := json.Marshal(got)
				require.NoError(t, err)
				assert.JSONEq(t, tt.in, string(out))
				assert.Empty(t, got.ExtraFields(), "known fields are not reported as extra")
			})
		}
	})

	t.Run("foreign number and time formats are written back verbatim", func(t *testing.T) {
		in := `{"id":5.0,"title":"A","type":"b","createdAt":"2024-01-01T10:00:00.123456+02:00"}`
		var got Resource
		require.NoError(t, json.Unmarshal([]byte(in), &got))
		assert.Equal(t, int64(5), got.ID)
		assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 123456000, time.UTC), got.CreatedAt)

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, in, string(out))
	})

	t.Run("ids outside int64 are kept but not decoded", func(t *testing.T) {
		for _, id := range []string{"9223372036854775808", "-9223372036854775809", "1e300", "9.3e18"} {
			in := `{"id":` + id + `,"title":"A","type":"b"}`
			var got Resource
			require.NoError(t, json.Unmarshal([]byte(in), &got))
			assert.Zero(t, got.ID, "id %s", id)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"id":`+id)
		}

		var top Resource
		require.NoError(t, json.Unmarshal([]byte(`{"id":9223372036854775807}`), &top))
		assert.Equal(t, int64(math.MaxInt64), top.ID)
	})

	t.Run("non-object is an error", func(t *testing.T) {
		var got Resource
		assert.Error(t, json.Unmarshal([]byte(`42`), &got))
		assert.Error(t, json.Unmarshal([]byte(`null`), &got))
	})
}

func TestResourceClone(t *testing.T) {
	var r Resource
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"A","type":"b","x":1}`), &r))

	c := r.Clone()
	c.extra["x"][0] = '9'
	assert.Equal(t, []byte("1"), r.extra["x"])
}
