package interview

import "strings"

// Category is the closed set of complaint categories the interview can
// branch on.
type Category string

const (
	CategoryChestPain     Category = "chest_pain"
	CategoryHeadache      Category = "headache"
	CategoryCough         Category = "cough"
	CategoryAbdominalPain Category = "abdominal_pain"
	CategorySOB           Category = "sob"
	CategoryAnklePain     Category = "ankle_pain"
	CategoryBackPain      Category = "back_pain"
	CategoryOther         Category = "other"
)

// categoryRule maps complaint substrings to a category. Rules are evaluated
// in order and the first match wins, so broader terms ("back") come after
// more specific ones.
type categoryRule struct {
	substrings []string
	category   Category
}

var categoryRules = []categoryRule{
	{[]string{"chest pain"}, CategoryChestPain},
	{[]string{"headache"}, CategoryHeadache},
	{[]string{"cough"}, CategoryCough},
	{[]string{"abdominal", "stomach"}, CategoryAbdominalPain},
	{[]string{"shortness of breath", "trouble breathing"}, CategorySOB},
	{[]string{"ankle"}, CategoryAnklePain},
	{[]string{"back"}, CategoryBackPain},
}

// ClassifyComplaint maps a free-text chief complaint to a Category using
// ordered substring rules. Unrecognised complaints fall into CategoryOther.
func ClassifyComplaint(complaint string) Category {
	complaint = strings.ToLower(strings.TrimSpace(complaint))
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(complaint, sub) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
