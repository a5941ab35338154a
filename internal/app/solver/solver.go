// Package solver places students into the three fixed visit sessions.
//
// A run works on an in-memory snapshot of labs, students and the assignments
// that already exist. Students are visited in shuffled order; for each one the
// open sessions are filled from the stated preferences (padded with the least
// loaded unused labs) using the session mapping that keeps the busiest
// lab/session pair as empty as possible. Capacity is advisory: a lab may end up
// over capacity, and such slots are reported in Result.Overbooked.
//
// A Solver holds a *rand.Rand and is not safe for concurrent use.
package solver

import (
	"math/rand"
	"sort"
	"time"
)

// SessionCount is the number of fixed time slots.
const SessionCount = 3

// Sessions lists the fixed time slots in ascending order.
var Sessions = [SessionCount]int{1, 2, 3}

// ValidSession reports whether n names one of the fixed sessions.
func ValidSession(n int) bool {
	return n >= 1 && n <= SessionCount
}

// Lab is the solver's view of a lab.
type Lab struct {
	ID       int64
	Capacity int
}

// Student is the solver's view of an applicant. Choices is ordered by
// preference; zero, unknown and repeated ids are ignored.
type Student struct {
	ID      int64
	Choices []int64
}

// Assignment places one student in one lab for one session.
type Assignment struct {
	StudentID int64
	Session   int
	LabID     int64
}

// Snapshot is the data a run reads before planning.
type Snapshot struct {
	Students []Student
	Labs     []Lab
	Existing []Assignment
}

// Slot identifies a lab during one session.
type Slot struct {
	LabID   int64
	Session int
}

// SlotLoad is the occupancy of one slot next to the lab's capacity.
type SlotLoad struct {
	LabID     int64
	Session   int
	Occupancy int
	Capacity  int
}

// Overbooked reports whether more students hold the slot than the lab seats.
func (l SlotLoad) Overbooked() bool {
	return l.Occupancy > l.Capacity
}

// Result is the outcome of a run.
type Result struct {
	// Plan holds the new assignments in the order they were decided.
	Plan []Assignment
	// Overbooked lists slots whose final occupancy exceeds capacity.
	Overbooked []SlotLoad
}

// Assigned returns the number of new assignments in the plan.
func (r *Result) Assigned() int {
	return len(r.Plan)
}

// Option configures a Solver.
type Option func(*Solver)

// WithRand sets the random source used to order students.
func WithRand(rng *rand.Rand) Option {
	return func(s *Solver) {
		s.rng = rng
	}
}

// WithSeed seeds the random source used to order students.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// Solver plans assignments for the sessions students do not hold yet.
type Solver struct {
	rng *rand.Rand
}

// New creates a Solver. Without options the student order is seeded from the clock.
func New(opts ...Option) *Solver {
	s := &Solver{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// holding tracks what a student already has.
type holding struct {
	sessions [SessionCount + 1]bool
	labs     map[int64]bool
}

func newHolding() *holding {
	return &holding{labs: make(map[int64]bool)}
}

func (h *holding) unfilled() []int {
	var open []int
	for _, s := range Sessions {
		if !h.sessions[s] {
			open = append(open, s)
		}
	}
	return open
}

// Solve plans assignments for every open session it can fill.
func (s *Solver) Solve(snap Snapshot) *Result {
	labs := make(map[int64]Lab, len(snap.Labs))
	labIDs := make([]int64, 0, len(snap.Labs))
	for _, l := range snap.Labs {
		if _, dup := labs[l.ID]; dup {
			continue
		}
		labs[l.ID] = l
		labIDs = append(labIDs, l.ID)
	}
	sort.Slice(labIDs, func(i, j int) bool { return labIDs[i] < labIDs[j] })

	ledger := make(map[Slot]int)
	holdings := make(map[int64]*holding)
	for _, a := range snap.Existing {
		if !ValidSession(a.Session) {
			continue
		}
		h, ok := holdings[a.StudentID]
		if !ok {
			h = newHolding()
			holdings[a.StudentID] = h
		}
		h.sessions[a.Session] = true
		h.labs[a.LabID] = true
		if _, known := labs[a.LabID]; known {
			ledger[Slot{LabID: a.LabID, Session: a.Session}]++
		}
	}

	res := &Result{}
	if len(labs) == 0 {
		return res
	}

	// The sum term never reaches this bound, so the peak term always dominates.
	large := SessionCount*(len(snap.Existing)+SessionCount*len(snap.Students)) + 1

	order := s.rng.Perm(len(snap.Students))
	for _, idx := range order {
		st := snap.Students[idx]
		h, ok := holdings[st.ID]
		if !ok {
			h = newHolding()
			holdings[st.ID] = h
		}

		open := h.unfilled()
		if len(open) == 0 {
			continue
		}

		cands := candidates(st, h, labs, labIDs, ledger, open)
		if len(cands) == 0 {
			continue
		}

		mapping := bestMapping(cands, open, ledger, large)
		for i, session := range mapping {
			a := Assignment{StudentID: st.ID, Session: session, LabID: cands[i]}
			res.Plan = append(res.Plan, a)
			ledger[Slot{LabID: a.LabID, Session: session}]++
			h.sessions[session] = true
			h.labs[a.LabID] = true
		}
	}

	for _, id := range labIDs {
		for _, session := range Sessions {
			load := SlotLoad{
				LabID:     id,
				Session:   session,
				Occupancy: ledger[Slot{LabID: id, Session: session}],
				Capacity:  labs[id].Capacity,
			}
			if load.Overbooked() {
				res.Overbooked = append(res.Overbooked, load)
			}
		}
	}

	return res
}

// candidates returns at most len(open) labs for the student: usable
// preferences first, then unused labs ordered by their load across the open
// sessions (lowest first), larger capacity first, lower id first.
func candidates(st Student, h *holding, labs map[int64]Lab, labIDs []int64, ledger map[Slot]int, open []int) []int64 {
	need := len(open)
	seen := make(map[int64]bool, need)
	out := make([]int64, 0, need)

	for _, id := range st.Choices {
		if _, known := labs[id]; !known || h.labs[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	if len(out) < need {
		load := func(id int64) int {
			n := 0
			for _, session := range open {
				n += ledger[Slot{LabID: id, Session: session}]
			}
			return n
		}

		pad := make([]int64, 0, len(labIDs))
		for _, id := range labIDs {
			if !h.labs[id] && !seen[id] {
				pad = append(pad, id)
			}
		}
		sort.SliceStable(pad, func(i, j int) bool {
			li, lj := load(pad[i]), load(pad[j])
			if li != lj {
				return li < lj
			}
			ci, cj := labs[pad[i]].Capacity, labs[pad[j]].Capacity
			if ci != cj {
				return ci > cj
			}
			return pad[i] < pad[j]
		})
		out = append(out, pad...)
	}

	if len(out) > need {
		out = out[:need]
	}
	return out
}

// bestMapping tries every way to put cands[i] into a distinct open session
// and returns the sessions of the lowest scoring mapping. Mappings are visited
// in lexicographic order of session position; the first minimum wins.
func bestMapping(cands []int64, open []int, ledger map[Slot]int, large int) []int {
	var best []int
	bestScore := 0

	pick := make([]int, 0, len(cands))
	taken := make([]bool, len(open))

	var walk func()
	walk = func() {
		if len(pick) == len(cands) {
			sc := score(cands, pick, ledger, large)
			if best == nil || sc < bestScore {
				best = append(best[:0:0], pick...)
				bestScore = sc
			}
			return
		}
		for i, session := range open {
			if taken[i] {
				continue
			}
			taken[i] = true
			pick = append(pick, session)
			walk()
			pick = pick[:len(pick)-1]
			taken[i] = false
		}
	}
	walk()

	return best
}

// score weighs the busiest slot of a mapping above its total load.
func score(cands []int64, sessions []int, ledger map[Slot]int, large int) int {
	peak, sum := 0, 0
	for i, session := range sessions {
		post := ledger[Slot{LabID: cands[i], Session: session}] + 1
		if post > peak {
			peak = post
		}
		sum += post
	}
	return peak*large + sum
}

// Loads returns the occupancy of every lab in every session.
func Loads(labs []Lab, existing []Assignment) []SlotLoad {
	counts := make(map[Slot]int)
	for _, a := range existing {
		if ValidSession(a.Session) {
			counts[Slot{LabID: a.LabID, Session: a.Session}]++
		}
	}

	loads := make([]SlotLoad, 0, len(labs)*SessionCount)
	for _, l := range labs {
		for _, session := range Sessions {
			loads = append(loads, SlotLoad{
				LabID:     l.ID,
				Session:   session,
				Occupancy: counts[Slot{LabID: l.ID, Session: session}],
				Capacity:  l.Capacity,
			})
		}
	}
	return loads
}
