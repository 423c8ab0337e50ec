package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt tolerates the number encodings the backend emits for exercise
// counts: a plain JSON number, a numeric string, or Mongo extended JSON
// ({"$numberInt": "10"}).
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as number first
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexInt(int(num))
		return nil
	}

	// Try to unmarshal as string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("invalid count %q", str)
		}
		*f = FlexInt(n)
		return nil
	}

	// Try to unmarshal as Mongo extended JSON
	var obj struct {
		NumberInt string `json:"$numberInt"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.NumberInt != "" {
		n, err := strconv.Atoi(obj.NumberInt)
		if err != nil {
			return fmt.Errorf("invalid $numberInt %q", obj.NumberInt)
		}
		*f = FlexInt(n)
		return nil
	}

	return fmt.Errorf("invalid count format")
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// IngredientList tolerates ingredients arriving as a JSON array of strings,
// a single string, or an R-style vector literal like `c("eggs", "flour")`.
type IngredientList []string

func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid ingredients format")
	}
	if str == "" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(str, "c(") && strings.HasSuffix(str, ")") {
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(str, "c("), ")"), ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.Trim(strings.TrimSpace(p), `"'`)
			if p != "" {
				out = append(out, p)
			}
		}
		*l = out
		return nil
	}
	*l = IngredientList{str}
	return nil
}

// String joins the list for display, matching how meals are rendered.
func (l IngredientList) String() string {
	return strings.Join(l, ", ")
}
