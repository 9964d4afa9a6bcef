package rebus

import (
	"fmt"
	"strings"
)

// Themes is the curated list a generation batch draws its theme from.
var Themes = []string{
	"World Geography and Famous Landmarks",
	"Historical Events and Famous Historical Figures",
	"General Science, Astronomy, and Nature Concepts",
	"General Pop Culture and Blockbuster Movies",
}

// BuildPrompt renders the LLM instructions for one batch.
func BuildPrompt(numLevels int, theme string, excluded []string) string {
	used := "None"
	if len(excluded) > 0 {
		used = strings.Join(excluded, ", ")
	}

	var b strings.Builder
	b.WriteString("You are an expert puzzle designer making highly difficult, clever Rebus visual puzzles.\n")
	fmt.Fprintf(&b, "Generate %d puzzles strictly based on this theme: %s.\n", numLevels, theme)
	b.WriteString("Each puzzle combines exactly two photographs whose subjects together spell out the final answer.\n\n")
	b.WriteString("CRITICAL RULES FOR STOCK PHOTOGRAPHY:\n")
	b.WriteString("1. NO ADJECTIVES OR ABSTRACT CONCEPTS. Do not use words like 'hairy', 'fast', 'cold'.\n")
	b.WriteString("2. USE CONCRETE, UNAMBIGUOUS NOUNS ONLY. If you want 'hair', search for 'hair comb'.\n")
	b.WriteString("3. SINGLE SUBJECT FOCUS. The object must be easily recognizable as the main subject of a photo.\n")
	b.WriteString("4. search_term_1 and search_term_2 must be different.\n")
	fmt.Fprintf(&b, "5. DO NOT generate ANY of these previously used answers: %s.\n", used)
	return b.String()
}
