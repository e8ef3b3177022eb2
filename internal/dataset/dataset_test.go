package dataset

import (
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	rows := Generate(20)
	require.Len(t, rows, 20)
	assert.Equal(t, Row{N: 0, Label: "amber amber 0"}, rows[0])
	assert.Equal(t, Row{N: 17, Label: "birch birch 17"}, rows[17])
	assert.Equal(t, "birch birch 17", rows[17].String())
}

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("should keep the original order", func(t *testing.T) {
		t.Parallel()
		got := Filter(Generate(40), "onyx")
		require.Len(t, got, 2)
		assert.Equal(t, 14, got[0].N)
		assert.Equal(t, 30, got[1].N)
	})

	t.Run("should return the same slice for an empty pattern", func(t *testing.T) {
		t.Parallel()
		rows := Generate(5)
		got := Filter(rows, "  ")
		require.Len(t, got, 5)
		assert.Same(t, &rows[0], &got[0])
	})

	t.Run("should return an empty collection when nothing matches", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Filter(Generate(40), "zzz"))
	})
}

func TestHeight(t *testing.T) {
	t.Parallel()

	rows := Generate(4)

	h := Height(&config.ListOptions{ItemHeight: 2})
	assert.True(t, h.IsConstant())
	assert.Equal(t, 2.0, h.Of(rows, 3))

	h = Height(&config.ListOptions{ItemHeight: 2, Heights: []int{1, 3}})
	assert.False(t, h.IsConstant())
	assert.Equal(t, 1.0, h.Of(rows, 0))
	assert.Equal(t, 3.0, h.Of(rows, 1))

	// heights follow the row, not its position
	filtered := []Row{rows[1], rows[2]}
	assert.Equal(t, 3.0, h.Of(filtered, 0))

	assert.Equal(t, 1.0, Height(nil).Of(rows, 0))
}

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render(Row{N: 5, Label: "x"}, 3)
	assert.Equal(t, 3, lipgloss.Height(out))
	assert.Equal(t, "#000005  x\n         · detail 1 of x\n         · detail 2 of x", out)
}
