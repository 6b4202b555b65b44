package entity

type ItemQty struct {
	ID       int     `json:"id"`
	Quantity float64 `json:"quantity"`
}

type XpHourEntry struct {
	Skill      string  `json:"skill"`
	Experience float64 `json:"experience"`
}

type Method struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Variants    []Variant `json:"variants"`
}

// Variant is one concrete way of performing a method.
type Variant struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Label           string        `json:"label"`
	Inputs          []ItemQty     `json:"inputs"`
	Outputs         []ItemQty     `json:"outputs"`
	Requirements    *Requirements `json:"requirements,omitempty"`
	Recommendations *Requirements `json:"recommendations,omitempty"`
	ClickIntensity  *int          `json:"clickIntensity,omitempty"`
	Afkiness        *int          `json:"afkiness,omitempty"`
	RiskLevel       *int          `json:"riskLevel,omitempty"`
	ActionsPerHour  *int          `json:"actionsPerHour,omitempty"`
	XpHour          []XpHourEntry `json:"xpHour,omitempty"`
}

// XpSum is the summed hourly experience over all skills.
func (v Variant) XpSum() float64 {
	var sum float64
	for _, e := range v.XpHour {
		sum += e.Experience
	}

	return sum
}

// HasSkill reports whether the variant trains the skill (case-insensitive).
func (v Variant) HasSkill(skill string) bool {
	for _, e := range v.XpHour {
		if equalFold(e.Skill, skill) {
			return true
		}
	}

	return false
}
