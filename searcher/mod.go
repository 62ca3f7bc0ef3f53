package searcher

// Hyperparameters for the Monte Carlo search

const DefaultEpisodes = 2000 // Playouts per move when no budget is given

// tally accumulates the terminal scores of playouts that started with the
// same move.
type tally struct {
	total int
	count int
}

// outcomes is owned by a single worker until the search completes.
type outcomes map[int]tally

func (o outcomes) add(move, score int) {
	t := o[move]
	t.total += score
	t.count++
	o[move] = t
}

// merge folds per-worker outcomes into a policy. Sums are order independent
// so the result does not depend on scheduling.
func merge(results []outcomes) Policy {
	combined := outcomes{}
	for _, result := range results {
		for move, t := range result {
			c := combined[move]
			c.total += t.total
			c.count += t.count
			combined[move] = c
		}
	}

	policy := make(Policy, len(combined))
	for move, t := range combined {
		policy[move] = Estimate{
			Mean:    float64(t.total) / float64(t.count),
			Samples: t.count,
		}
	}
	return policy
}
