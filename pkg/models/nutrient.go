package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Nutrient is the natural key of a nutrition fact.
type Nutrient string

const (
	Calories           Nutrient = "CALORIES"
	Protein            Nutrient = "PROTEIN"
	Carbohydrates      Nutrient = "CARBOHYDRATES"
	Fat                Nutrient = "FAT"
	DietaryFiber       Nutrient = "DIETARY_FIBER"
	Sugars             Nutrient = "SUGARS"
	AddedSugars        Nutrient = "ADDED_SUGARS"
	Cholesterol        Nutrient = "CHOLESTEROL"
	SaturatedFat       Nutrient = "SATURATED_FAT"
	MonounsaturatedFat Nutrient = "MONOUNSATURATED_FAT"
	PolyunsaturatedFat Nutrient = "POLYUNSATURATED_FAT"
	TransFat           Nutrient = "TRANS_FAT"
	Omega3             Nutrient = "OMEGA_3"
	Omega6             Nutrient = "OMEGA_6"
	VitaminA           Nutrient = "VITAMIN_A"
	VitaminB1          Nutrient = "VITAMIN_B1"
	VitaminB2          Nutrient = "VITAMIN_B2"
	VitaminB3          Nutrient = "VITAMIN_B3"
	VitaminB5          Nutrient = "VITAMIN_B5"
	VitaminB6          Nutrient = "VITAMIN_B6"
	VitaminB7          Nutrient = "VITAMIN_B7"
	VitaminB9          Nutrient = "VITAMIN_B9"
	VitaminB12         Nutrient = "VITAMIN_B12"
	VitaminC           Nutrient = "VITAMIN_C"
	VitaminD           Nutrient = "VITAMIN_D"
	VitaminE           Nutrient = "VITAMIN_E"
	VitaminK           Nutrient = "VITAMIN_K"
	Choline            Nutrient = "CHOLINE"
	Calcium            Nutrient = "CALCIUM"
	Chromium           Nutrient = "CHROMIUM"
	Copper             Nutrient = "COPPER"
	Iodine             Nutrient = "IODINE"
	Iron               Nutrient = "IRON"
	Magnesium          Nutrient = "MAGNESIUM"
	Manganese          Nutrient = "MANGANESE"
	Molybdenum         Nutrient = "MOLYBDENUM"
	Phosphorus         Nutrient = "PHOSPHORUS"
	Potassium          Nutrient = "POTASSIUM"
	Selenium           Nutrient = "SELENIUM"
	Sodium             Nutrient = "SODIUM"
	Zinc               Nutrient = "ZINC"
)

var nutrients = []Nutrient{
	Calories,
	Protein, Carbohydrates, Fat, DietaryFiber, Sugars, AddedSugars, Cholesterol,
	SaturatedFat, MonounsaturatedFat, PolyunsaturatedFat, TransFat, Omega3, Omega6,
	VitaminA, VitaminB1, VitaminB2, VitaminB3, VitaminB5, VitaminB6, VitaminB7,
	VitaminB9, VitaminB12, VitaminC, VitaminD, VitaminE, VitaminK, Choline,
	Calcium, Chromium, Copper, Iodine, Iron, Magnesium, Manganese, Molybdenum,
	Phosphorus, Potassium, Selenium, Sodium, Zinc,
}

// Nutrients returns every known nutrient in declaration order.
func Nutrients() []Nutrient {
	out := make([]Nutrient, len(nutrients))
	copy(out, nutrients)
	return out
}

// ParseNutrient is case-insensitive and ignores surrounding spaces.
func ParseNutrient(raw string) (Nutrient, bool) {
	s := Nutrient(strings.ToUpper(strings.TrimSpace(raw)))
	for _, n := range nutrients {
		if n == s {
			return n, true
		}
	}
	return "", false
}

func (n *Nutrient) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("nutrient must be a string: %w", err)
	}
	parsed, ok := ParseNutrient(s)
	if !ok {
		return fmt.Errorf("unknown nutrient: %s", s)
	}
	*n = parsed
	return nil
}
