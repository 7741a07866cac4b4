// Package dataset holds the built-in evaluation dataset: test queries and
// reference answers for NCERT-level physics question answering.
package dataset

// Query is one evaluation query with its labeling metadata.
type Query struct {
	ID             string   `json:"id"`
	Text           string   `json:"query"`
	Category       string   `json:"category"`
	ExpectedTopics []string `json:"expected_topics"`
}

var testQueries = []Query{
	{
		ID:             "Q1",
		Text:           "What is Newton's first law of motion? Explain with examples from daily life.",
		Category:       "laws_of_motion",
		ExpectedTopics: []string{"newton", "inertia", "motion", "force", "examples"},
	},
	{
		ID:             "Q2",
		Text:           "Define work done by a force. What are the conditions for work to be done?",
		Category:       "work_energy_power",
		ExpectedTopics: []string{"work", "force", "displacement", "conditions"},
	},
	{
		ID:             "Q3",
		Text:           "Explain the difference between distance and displacement with suitable examples.",
		Category:       "kinematics",
		ExpectedTopics: []string{"distance", "displacement", "scalar", "vector", "examples"},
	},
	{
		ID:             "Q4",
		Text:           "What is the law of conservation of energy? Provide examples to illustrate this law.",
		Category:       "energy",
		ExpectedTopics: []string{"conservation", "energy", "law", "examples", "transformation"},
	},
	{
		ID:             "Q5",
		Text:           "Derive the equations of motion for uniformly accelerated motion using graphical method.",
		Category:       "kinematics",
		ExpectedTopics: []string{"equations", "motion", "acceleration", "velocity", "graph"},
	},
	{
		ID:             "Q6",
		Text:           "What is gravitational force? State the universal law of gravitation.",
		Category:       "gravitation",
		ExpectedTopics: []string{"gravity", "gravitational force", "universal law", "newton"},
	},
	{
		ID:             "Q7",
		Text:           "Explain Archimedes' principle and its applications in daily life.",
		Category:       "fluid_mechanics",
		ExpectedTopics: []string{"archimedes", "buoyancy", "upthrust", "applications", "floating"},
	},
	{
		ID:             "Q8",
		Text:           "What is the difference between heat and temperature? Explain with examples.",
		Category:       "thermodynamics",
		ExpectedTopics: []string{"heat", "temperature", "difference", "energy", "measurement"},
	},
	{
		ID:             "Q9",
		Text:           "State and explain Ohm's law. What are the factors affecting the resistance of a conductor?",
		Category:       "electricity",
		ExpectedTopics: []string{"ohm", "law", "resistance", "current", "voltage", "factors"},
	},
	{
		ID:             "Q10",
		Text:           "What is the principle of conservation of momentum? Derive it from Newton's laws of motion.",
		Category:       "laws_of_motion",
		ExpectedTopics: []string{"momentum", "conservation", "newton", "collision", "derivation"},
	},
	{
		ID:             "Q11",
		Text:           "Explain the phenomenon of refraction of light. State the laws of refraction.",
		Category:       "optics",
		ExpectedTopics: []string{"refraction", "light", "snell's law", "bending", "medium"},
	},
	{
		ID:             "Q12",
		Text:           "What is kinetic energy and potential energy? Derive the expression for kinetic energy.",
		Category:       "work_energy_power",
		ExpectedTopics: []string{"kinetic", "potential", "energy", "expression", "derivation"},
	},
	{
		ID:             "Q13",
		Text:           "Explain the concept of power. What is the SI unit of power?",
		Category:       "work_energy_power",
		ExpectedTopics: []string{"power", "work", "time", "unit", "watt"},
	},
	{
		ID:             "Q14",
		Text:           "What are the three methods of heat transfer? Explain each with examples.",
		Category:       "thermodynamics",
		ExpectedTopics: []string{"conduction", "convection", "radiation", "heat transfer", "examples"},
	},
	{
		ID:             "Q15",
		Text:           "State Fleming's left-hand rule and explain its application in electric motors.",
		Category:       "electromagnetism",
		ExpectedTopics: []string{"fleming", "left hand rule", "magnetic field", "current", "motor"},
	},
}

// Queries returns a copy of the test query list.
func Queries() []Query {
	out := make([]Query, len(testQueries))
	copy(out, testQueries)
	return out
}

// QueryByID returns the query with the given ID, or false if unknown.
func QueryByID(id string) (Query, bool) {
	for _, q := range testQueries {
		if q.ID == id {
			return q, true
		}
	}
	return Query{}, false
}

// QueriesByCategory returns all queries of a category.
func QueriesByCategory(category string) []Query {
	var out []Query
	for _, q := range testQueries {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}
