package planparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCheckboxes(t *testing.T) {
	text := "# Plan\n- [x] Deadline paper: write 2h\n- [ ] Daily maintenance 20m\nnot a checkbox\n* [X] Open item\n"
	boxes := ExtractCheckboxes(text)
	require.Len(t, boxes, 3)

	assert.Equal(t, "line-1", boxes[0].Key)
	assert.True(t, boxes[0].Checked)
	assert.Equal(t, "Deadline paper: write 2h", boxes[0].Label)

	assert.Equal(t, "line-2", boxes[1].Key)
	assert.False(t, boxes[1].Checked)

	assert.Equal(t, "line-4", boxes[2].Key)
	assert.True(t, boxes[2].Checked)
}

func TestExtractCheckboxesEmpty(t *testing.T) {
	assert.Empty(t, ExtractCheckboxes("# Plan\nno boxes here\n"))
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 120, DurationMinutes("Deadline paper: write 2h"))
	assert.Equal(t, 20, DurationMinutes("Daily maintenance 20m"))
	assert.Equal(t, 0, DurationMinutes("Open item"))
	assert.Equal(t, 90, DurationMinutes("Read 1.5H"))
}

func TestTitlePrefix(t *testing.T) {
	assert.Equal(t, "Deadline paper", TitlePrefix("Deadline paper: write 2h"))
	assert.Equal(t, "Daily maintenance", TitlePrefix("Daily maintenance 20m"))
	assert.Equal(t, "Open item", TitlePrefix("Open item"))
}
