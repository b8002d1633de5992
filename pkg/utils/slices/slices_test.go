package slices_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/modelmora/modelmora/pkg/utils/cmp"
	"github.com/modelmora/modelmora/pkg/utils/slices"
)

func TestMap(t *testing.T) {
	t.Run("it maps each element, keeping order", func(t *testing.T) {
		actual := slices.Map([]int{1, 2, 3}, strconv.Itoa)
		if !cmp.SliceContentEq(actual, []string{"1", "2", "3"}) {
			t.Errorf("not match: %+v", actual)
		}
	})
	t.Run("an empty slice maps to an empty slice", func(t *testing.T) {
		if actual := slices.Map([]int{}, strconv.Itoa); len(actual) != 0 {
			t.Errorf("not empty: %+v", actual)
		}
	})
}

func TestMapUntilError(t *testing.T) {
	t.Run("it maps each element when no error occurs", func(t *testing.T) {
		actual, err := slices.MapUntilError([]string{"1", "2"}, strconv.Atoi)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !cmp.SliceContentEq(actual, []int{1, 2}) {
			t.Errorf("not match: %+v", actual)
		}
	})

	t.Run("it stops at the first error", func(t *testing.T) {
		expected := errors.New("boom")
		calls := 0
		_, err := slices.MapUntilError([]int{1, 2, 3}, func(v int) (int, error) {
			calls++
			if v == 2 {
				return 0, expected
			}
			return v, nil
		})
		if !errors.Is(err, expected) {
			t.Errorf("error is not propagated: %+v", err)
		}
		if calls != 2 {
			t.Errorf("mapper should stop at the error: %d calls", calls)
		}
	})
}

func TestKeysOfValuesOf(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}

	keys := slices.KeysOf(m)
	if len(keys) != 2 {
		t.Errorf("keys: %+v", keys)
	}

	values := slices.ValuesOf(m)
	if len(values) != 2 {
		t.Errorf("values: %+v", values)
	}
}

func TestSorted(t *testing.T) {
	t.Run("it returns a sorted copy, leaving the input alone", func(t *testing.T) {
		input := []int{3, 1, 2}
		actual := slices.Sorted(input, func(a, b int) bool { return a < b })

		if !cmp.SliceContentEq(actual, []int{1, 2, 3}) {
			t.Errorf("not sorted: %+v", actual)
		}
		if !cmp.SliceContentEq(input, []int{3, 1, 2}) {
			t.Errorf("input should not be mutated: %+v", input)
		}
	})
}
