package scorer

// Grade bands, lower bound inclusive.
var gradeBands = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}

// Grade maps a 0-100 score to its letter band. Anything below 50 is an F.
func Grade(score float64) string {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade
		}
	}
	return "F"
}

var walkDescriptions = map[string]string{
	"A+": "Walker's Paradise: daily errands do not require a car",
	"A":  "Very Walkable: most errands can be accomplished on foot",
	"B":  "Walkable: some errands can be accomplished on foot",
	"C":  "Somewhat Walkable: a few errands can be accomplished on foot",
	"D":  "Car-Dependent: most errands require a car",
	"F":  "Car-Dependent: almost all errands require a car",
}

// WalkDescription returns the narrative for a walk-score grade.
func WalkDescription(grade string) string {
	return walkDescriptions[grade]
}
