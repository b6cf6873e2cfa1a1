package thermoml

import (
	"regexp"
	"strconv"
)

// elementPattern matches one element symbol with an optional count,
// e.g. "H2", "Cl", "Uuo3".
var elementPattern = regexp.MustCompile(`([A-Z][a-z]{0,2})(\d*)`)

// ElementCounts parses a molecular formula like "C2H6O" into element
// symbol to atom count. Repeated symbols accumulate, so "CH3OCH3"
// yields C:2 H:6 O:1. Unparseable stretches are skipped.
func ElementCounts(formula string) map[string]int {
	counts := make(map[string]int)
	for _, m := range elementPattern.FindAllStringSubmatch(formula, -1) {
		n := 1
		if m[2] != "" {
			v, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			n = v
		}
		counts[m[1]] += n
	}
	return counts
}

// CountAtoms returns the total number of atoms in a formula.
func CountAtoms(formula string) int {
	total := 0
	for _, n := range ElementCounts(formula) {
		total += n
	}
	return total
}

// CountAtomsInSet returns the number of atoms of the given elements.
func CountAtomsInSet(formula string, elements []string) int {
	counts := ElementCounts(formula)
	total := 0
	for _, e := range elements {
		total += counts[e]
	}
	return total
}
