package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		total     int64
		want      PageInfo
	}{
		{name: "first page", requested: 1, total: 45, want: PageInfo{Number: 1, Size: 20, Total: 45, Pages: 3}},
		{name: "invalid page falls back to first", requested: 0, total: 45, want: PageInfo{Number: 1, Size: 20, Total: 45, Pages: 3}},
		{name: "past the end falls back to last", requested: 9, total: 45, want: PageInfo{Number: 3, Size: 20, Total: 45, Pages: 3}},
		{name: "empty list has one page", requested: 2, total: 0, want: PageInfo{Number: 1, Size: 20, Total: 0, Pages: 1}},
		{name: "exact multiple", requested: 2, total: 40, want: PageInfo{Number: 2, Size: 20, Total: 40, Pages: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.requested, 20, tt.total))
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Slice(items, Resolve(2, 2, 5)))
	assert.Equal(t, []int{5}, Slice(items, Resolve(3, 2, 5)))
	assert.Equal(t, []int{}, Slice([]int{}, Resolve(1, 2, 0)))
}

func TestFetchRefetchesLastPage(t *testing.T) {
	data := []string{"a", "b", "c", "d", "e"}
	var calls [][2]int
	query := func(limit, offset int) ([]string, int64, error) {
		calls = append(calls, [2]int{limit, offset})
		return Slice(data, PageInfo{Number: offset/limit + 1, Size: limit}), int64(len(data)), nil
	}

	items, info, err := Fetch(7, 2, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, items)
	assert.Equal(t, 3, info.Number)
	assert.Equal(t, [][2]int{{2, 12}, {2, 4}}, calls)

	calls = nil
	items, info, err = Fetch(2, 2, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, items)
	assert.True(t, info.HasNext())
	assert.True(t, info.HasPrevious())
	assert.Len(t, calls, 1)
}

func TestFetchPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Fetch(1, 10, func(int, int) ([]int, int64, error) { return nil, 0, boom })
	assert.ErrorIs(t, err, boom)
}
