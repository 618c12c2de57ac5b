package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/scenariogen-oss/utils"
)

func TestProduct(t *testing.T) {
	// test: empty input yields one empty combination

	assert.Equal(t, [][]int{{}}, utils.Product[int](nil))

	// test: single set

	assert.Equal(t, [][]int{{1}, {2}, {3}}, utils.Product([][]int{{1, 2, 3}}))

	// test: two sets, index-lexicographic order

	got := utils.Product([][]int{{1, 2}, {10, 20, 30}})
	assert.Equal(t, [][]int{
		{1, 10}, {1, 20}, {1, 30},
		{2, 10}, {2, 20}, {2, 30},
	}, got)

	// test: an empty set empties the product

	assert.Empty(t, utils.Product([][]int{{1, 2}, {}}))
}
