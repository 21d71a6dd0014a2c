package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasket(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     []string
	}{
		{name: "selection kept in order", selected: []string{"Pears", "Apples"}, want: []string{"Pears", "Apples"}},
		{name: "nothing selected", selected: nil, want: []string{NoSelection}},
		{name: "values echoed as submitted", selected: []string{" ", "Mangoes "}, want: []string{" ", "Mangoes "}},
		{name: "empty list", selected: []string{}, want: []string{NoSelection}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Basket(tt.selected))
		})
	}
}

func TestBasket_DoesNotAliasInput(t *testing.T) {
	selected := []string{"Apples"}
	basket := Basket(selected)
	basket[0] = "Pears"
	assert.Equal(t, []string{"Apples"}, selected)
}
