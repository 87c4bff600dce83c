// Package dataset holds the fixed training table for the leave-reason classifier.
package dataset

import "leavereason/internal/models"

type row struct {
	text  string
	label models.Label
}

var examples = []row{
	// Medical
	{"fever and cold", models.LabelMedical},
	{"headache", models.LabelMedical},
	{"sick leave", models.LabelMedical},
	{"medical emergency", models.LabelMedical},
	{"doctor appointment", models.LabelMedical},
	{"hospital visit", models.LabelMedical},
	{"flu and body pain", models.LabelMedical},
	{"covid symptoms", models.LabelMedical},
	{"illness", models.LabelMedical},
	{"health issue", models.LabelMedical},
	{"stomach ache", models.LabelMedical},
	{"back pain", models.LabelMedical},
	{"tooth pain", models.LabelMedical},
	{"eye infection", models.LabelMedical},
	{"fatigue", models.LabelMedical},

	// Family
	{"going home for family function", models.LabelFamily},
	{"family marriage", models.LabelFamily},
	{"sister wedding", models.LabelFamily},
	{"family event", models.LabelFamily},
	{"attending funeral", models.LabelFamily},
	{"parents anniversary", models.LabelFamily},
	{"taking care of family member", models.LabelFamily},
	{"relative hospitalised", models.LabelFamily},
	{"home ceremony", models.LabelFamily},
	{"grandmother birthday", models.LabelFamily},

	// Travel
	{"vacation travel", models.LabelTravel},
	{"trip with friends", models.LabelTravel},
	{"out of station", models.LabelTravel},
	{"visiting hometown", models.LabelTravel},
	{"train delay", models.LabelTravel},
	{"bus issue", models.LabelTravel},
	{"traveling to another city", models.LabelTravel},
	{"returning from trip", models.LabelTravel},
	{"flight cancellation", models.LabelTravel},
	{"journey to home", models.LabelTravel},

	// Personal
	{"personal reason", models.LabelPersonal},
	{"urgent work at home", models.LabelPersonal},
	{"personal issues", models.LabelPersonal},
	{"need rest", models.LabelPersonal},
	{"taking break", models.LabelPersonal},
	{"self care", models.LabelPersonal},
	{"mental health", models.LabelPersonal},
	{"personal matter", models.LabelPersonal},

	// Academic
	{"college event", models.LabelAcademic},
	{"seminar participation", models.LabelAcademic},
	{"hackathon", models.LabelAcademic},
	{"project work", models.LabelAcademic},
	{"competition outside campus", models.LabelAcademic},
	{"internship orientation", models.LabelAcademic},
	{"exam preparation", models.LabelAcademic},
	{"lab work", models.LabelAcademic},
	{"technical fest", models.LabelAcademic},
	{"presentation day", models.LabelAcademic},

	// Holiday / weekend
	{"holiday", models.LabelHoliday},
	{"weekend leave", models.LabelHoliday},
	{"going out on sunday", models.LabelHoliday},
	{"public holiday", models.LabelHoliday},
	{"extended weekend", models.LabelHoliday},
	{"taking off for diwali", models.LabelHoliday},
	{"christmas break", models.LabelHoliday},
	{"new year celebration", models.LabelHoliday},
	{"pongal vacation", models.LabelHoliday},
	{"eid celebration", models.LabelHoliday},

	// Emergency
	{"accident in family", models.LabelEmergency},
	{"urgent medical help", models.LabelEmergency},
	{"house emergency", models.LabelEmergency},
	{"sudden illness", models.LabelEmergency},
	{"flood in area", models.LabelEmergency},
	{"fire accident", models.LabelEmergency},
	{"road accident", models.LabelEmergency},
	{"emergency leave", models.LabelEmergency},
	{"critical situation", models.LabelEmergency},
	{"unexpected issue", models.LabelEmergency},
}

// Examples returns a copy of the training table.
func Examples() []models.Example {
	out := make([]models.Example, len(examples))
	for i, r := range examples {
		out[i] = models.Example{Text: r.text, Label: r.label}
	}
	return out
}

// Split returns the texts and labels as parallel slices.
func Split(exs []models.Example) (texts []string, labels []models.Label) {
	texts = make([]string, len(exs))
	labels = make([]models.Label, len(exs))
	for i, ex := range exs {
		texts[i] = ex.Text
		labels[i] = ex.Label
	}
	return texts, labels
}

// CountByLabel returns how many examples each label has. Labels with no
// examples are present with a zero count.
func CountByLabel(exs []models.Example) map[models.Label]int {
	counts := make(map[models.Label]int, len(models.AllLabels()))
	for _, l := range models.AllLabels() {
		counts[l] = 0
	}
	for _, ex := range exs {
		counts[ex.Label]++
	}
	return counts
}
