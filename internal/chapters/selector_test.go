package chapters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonymoize/madokami/internal/source"
)

func testChapters() []Chapter {
	return Wrap([]source.Chapter{
		{Key: "/reader/x/1", Title: "x 1", Number: 1},
		{Key: "/reader/x/2", Title: "x 2", Number: 2},
		{Key: "/reader/x/2.5", Title: "x 2.5 extra", Number: 2.5},
		{Key: "/reader/x/3", Title: "x 3", Number: 3},
		{Key: "/reader/x/oneshot", Title: "Oneshot", Number: -1},
	})
}

func TestFilter_All(t *testing.T) {
	all := testChapters()
	assert.Len(t, Filter(all, "", "", ""), 5)
}

func TestFilter_ByLabel(t *testing.T) {
	all := testChapters()

	got := Filter(all, "2.5", "", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "/reader/x/2.5", got[0].Key)

	got = Filter(all, "Oneshot", "", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "/reader/x/oneshot", got[0].Key)
}

func TestFilter_ByIndexFallback(t *testing.T) {
	all := testChapters()

	// "5" is no chapter label, so it falls back to the 1-based index
	got := Filter(all, "5", "", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "/reader/x/oneshot", got[0].Key)

	assert.Empty(t, Filter(all, "99", "", ""))
}

func TestFilter_Range(t *testing.T) {
	all := testChapters()

	got := Filter(all, "", "2-4", "")
	assert.Len(t, got, 3)
	assert.Equal(t, "/reader/x/2", got[0].Key)
	assert.Equal(t, "/reader/x/3", got[2].Key)

	assert.Empty(t, Filter(all, "", "4-2", ""))
	assert.Empty(t, Filter(all, "", "0-3", ""))
	assert.Empty(t, Filter(all, "", "1-99", ""))
	assert.Empty(t, Filter(all, "", "nope", ""))
}

func TestFilter_List(t *testing.T) {
	all := testChapters()

	got := Filter(all, "", "", "1, 3 ,99,junk")
	assert.Len(t, got, 2)
	assert.Equal(t, "/reader/x/1", got[0].Key)
	assert.Equal(t, "/reader/x/2.5", got[1].Key)
}
