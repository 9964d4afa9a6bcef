package models

// PuzzleConcept is one LLM-proposed rebus: the answer plus one concrete noun per visual clue.
type PuzzleConcept struct {
	FinalAnswer string `json:"final_answer"`
	Reasoning   string `json:"reasoning"`
	Category    string `json:"category"`
	Hint        string `json:"hint"`
	SearchTerm1 string `json:"search_term_1"`
	SearchTerm2 string `json:"search_term_2"`
}

// GenerationReport summarizes one generation run for logs and metrics.
type GenerationReport struct {
	Theme     string
	Requested int
	Proposed  int
	Saved     []int
	Skipped   []string
}
