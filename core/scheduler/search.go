package scheduler

import (
	"context"
	"fmt"

	"github.com/kilianp07/teamday/core/model"
)

// ctxCheckInterval is the number of candidate placements between context
// checks. Must be a power of two.
const ctxCheckInterval = 256

// SearchResult holds a complete placement in request order.
type SearchResult struct {
	Assignments []model.Assignment
	Iterations  int
}

// searcher runs a depth first search over request placements. Requests are
// processed strictly in order and candidate starts are tried ascending, so
// the first solution found is deterministic. The recursion is kept on an
// explicit stack; len(stack) always equals the index of the request being
// placed.
type searcher struct {
	reqs          []model.Request
	masks         []mask
	occ           *Occupancy
	stack         []*Commitment
	iterations    int
	maxIterations int
}

func newSearcher(reqs []model.Request, totalUnits, maxIterations int) *searcher {
	ids := make(map[string]int)
	for _, r := range reqs {
		for _, name := range r.Group {
			if _, ok := ids[name]; !ok {
				ids[name] = len(ids)
			}
		}
	}
	occ := NewOccupancy(totalUnits, len(ids))
	masks := make([]mask, len(reqs))
	for i, r := range reqs {
		members := make([]int, len(r.Group))
		for j, name := range r.Group {
			members[j] = ids[name]
		}
		masks[i] = occ.newMask(members...)
	}
	return &searcher{
		reqs:          reqs,
		masks:         masks,
		occ:           occ,
		stack:         make([]*Commitment, 0, len(reqs)),
		maxIterations: maxIterations,
	}
}

// Search places every request on a timeline of totalUnits units. It returns
// ErrInfeasible when no placement exists and ErrSearchBudgetExceeded when
// maxIterations (if positive) or ctx stop the search first.
func Search(ctx context.Context, reqs []model.Request, totalUnits, maxIterations int) (SearchResult, error) {
	return newSearcher(reqs, totalUnits, maxIterations).run(ctx)
}

func (s *searcher) run(ctx context.Context) (SearchResult, error) {
	total := s.occ.Units()
	if err := s.checkCapacity(); err != nil {
		return SearchResult{}, err
	}
	from := 0
	for len(s.stack) < len(s.reqs) {
		i := len(s.stack)
		length := s.reqs[i].DurationUnits
		placed := false
		for start := from; start <= total-length; start++ {
			if err := s.tick(ctx); err != nil {
				s.unwind()
				return SearchResult{Iterations: s.iterations}, err
			}
			if s.occ.Fits(s.masks[i], start, length) {
				s.stack = append(s.stack, s.occ.Commit(s.masks[i], start, length))
				placed = true
				break
			}
		}
		if placed {
			from = 0
			continue
		}
		if len(s.stack) == 0 {
			return SearchResult{Iterations: s.iterations}, ErrInfeasible
		}
		from = s.pop().Start() + 1
	}

	out := make([]model.Assignment, len(s.stack))
	for i, c := range s.stack {
		start := c.Start()
		out[i] = model.Assignment{
			Group:     s.reqs[i].Group,
			StartUnit: start,
			EndUnit:   start + s.reqs[i].DurationUnits,
		}
	}
	return SearchResult{Assignments: out, Iterations: s.iterations}, nil
}

// checkCapacity rejects inputs where one participant needs more units than
// the horizon holds. Such inputs have no solution, so the outcome matches an
// exhaustive search without enumerating every arrangement first.
func (s *searcher) checkCapacity() error {
	load := make(map[string]int)
	for _, r := range s.reqs {
		for _, name := range r.Group {
			load[name] += r.DurationUnits
			if load[name] > s.occ.Units() {
				return fmt.Errorf("%w: %s needs more than %d units", ErrInfeasible, name, s.occ.Units())
			}
		}
	}
	return nil
}

func (s *searcher) tick(ctx context.Context) error {
	s.iterations++
	if s.maxIterations > 0 && s.iterations > s.maxIterations {
		return fmt.Errorf("%w: more than %d placements tried", ErrSearchBudgetExceeded, s.maxIterations)
	}
	if s.iterations&(ctxCheckInterval-1) == 1 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrSearchBudgetExceeded, err)
		}
	}
	return nil
}

// pop reverts the most recent placement and returns its commitment.
func (s *searcher) pop() *Commitment {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	top.Rollback()
	return top
}

func (s *searcher) unwind() {
	for len(s.stack) > 0 {
		s.pop()
	}
}
