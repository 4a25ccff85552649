package item

import "strings"

// Attributes is the structured output of the classification call.
// JSON keys match the tool schema sent to the model (capitalized, matching
// the stored document field names).
type Attributes struct {
	Description string   `json:"Description"`
	Gender      string   `json:"Gender"`
	Category    string   `json:"Category"`
	Subcategory string   `json:"Subcategory"`
	Brand       string   `json:"Brand"`
	Condition   string   `json:"Condition"`
	Size        string   `json:"Size"`
	Color       string   `json:"Color"`
	Source      string   `json:"Source"`
	Age         string   `json:"Age"`
	Style       []string `json:"Style"`
}

// Validate checks that every required attribute came back populated.
// The tool schema marks all fields required, so an empty one means the
// response is unusable.
func (a Attributes) Validate() error {
	required := []string{
		a.Description, a.Gender, a.Category, a.Subcategory, a.Brand,
		a.Condition, a.Size, a.Color, a.Source, a.Age,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ErrValidation
		}
	}
	if len(a.Style) == 0 {
		return ErrValidation
	}
	return nil
}
