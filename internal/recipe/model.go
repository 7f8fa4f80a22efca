package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ingredient is a single entry of the user's ingredient list as exchanged on the wire.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Recipe represents the structure of a generated recipe
type Recipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PrepTime     string   `json:"prepTime"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tips         string   `json:"tips,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Ingredient.
// Quantity is accepted as a string or a bare number.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	type Alias Ingredient
	aux := &struct {
		Quantity json.RawMessage `json:"quantity"`
		*Alias
	}{
		Alias: (*Alias)(i),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Quantity)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		i.Quantity = ""
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &i.Quantity); err != nil {
			return err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("quantity: unexpected value %s", raw)
		}
		i.Quantity = n.String()
	}
	return nil
}

// Set is the envelope the model is asked to answer with.
type Set struct {
	Recipes []Recipe `json:"recipes"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Servings never fails the decode: a number, a numeric string or a string starting
// with a number ("4-6", "4 servings") yields that number, anything else 0.
// Difficulty is lower-cased.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		Servings json.RawMessage `json:"servings"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Servings = parseServings(aux.Servings)
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))

	return nil
}

func parseServings(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	return leadingInt(s)
}

// leadingInt returns the integer at the start of s, ignoring leading spaces, or 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
