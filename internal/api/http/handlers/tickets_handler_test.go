package handlers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOffset(t *testing.T) {
	cases := map[string]struct {
		page, size, want int
	}{
		"first page":         {page: 1, size: 20, want: 0},
		"third page":         {page: 3, size: 20, want: 40},
		"no page size":       {page: 5, size: 0, want: 0},
		"huge page":          {page: math.MaxInt, size: 2, want: math.MaxInt},
		"huge page and size": {page: math.MaxInt / 2, size: math.MaxInt / 2, want: math.MaxInt},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, pageOffset(tc.page, tc.size))
		})
	}
}
