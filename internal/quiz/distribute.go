package quiz

// Counts maps each question type to a number of questions.
type Counts map[QuestionType]int

// Get returns the count for t, or 0 when t is absent.
func (c Counts) Get(t QuestionType) int {
	return c[t]
}

// Total sums all counts.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Distribute splits total across question types.
//
// With no subset, the four types each get total/4 and the remainder goes to
// multiple-choice, true-false, and fill-in-blank in that order. With a subset,
// each listed type gets total/k and the first total%k types (in the caller's
// order) get one more. Types outside the subset get 0. The result always has
// an entry for every type in AllTypes.
func Distribute(total int, subset []QuestionType) Counts {
	if total < 0 {
		total = 0
	}

	counts := make(Counts, len(AllTypes))
	for _, t := range AllTypes {
		counts[t] = 0
	}

	if len(subset) == 0 {
		perType := total / len(AllTypes)
		remainder := total % len(AllTypes)
		for _, t := range AllTypes {
			counts[t] = perType
		}
		// At most three units remain, so identification never gets one.
		for _, t := range AllTypes[:len(AllTypes)-1] {
			if remainder == 0 {
				break
			}
			counts[t]++
			remainder--
		}
		return counts
	}

	perType := total / len(subset)
	remainder := total % len(subset)
	for i, t := range subset {
		counts[t] += perType
		if i < remainder {
			counts[t]++
		}
	}
	return counts
}
