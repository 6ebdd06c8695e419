package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  Integer
	}{
		{`{"amount":5}`, 5},
		{`{"amount":"5"}`, 5},
		{`{"amount":" 20 "}`, 20},
		{`{"amount":-3}`, -3},
		{`{"amount":3000000000}`, 3000000000},
		{`{"amount":null}`, 0},
		{`{}`, 0},
	}
	for _, tt := range tests {
		var line IngredientAmount
		require.NoError(t, json.Unmarshal([]byte(tt.input), &line), tt.input)
		assert.Equal(t, tt.want, line.Amount, tt.input)
	}
}

func TestIntegerUnmarshalRejectsNonIntegers(t *testing.T) {
	for _, input := range []string{`{"amount":"five"}`, `{"amount":1.5}`, `{"amount":""}`, `{"amount":true}`} {
		var line IngredientAmount
		err := json.Unmarshal([]byte(input), &line)

		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, err, &typeErr, input)
		assert.Equal(t, "amount", typeErr.Field, input)
	}
}
