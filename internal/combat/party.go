package combat

const MaxPartySize = 6

type Party struct {
	Name    string    `json:"name"`
	Members []Pokemon `json:"-"`
	Active  int       `json:"active"`
}

func (p *Party) ActivePokemon() *Pokemon { return &p.Members[p.Active] }

func (p *Party) AliveCount() int {
	n := 0
	for i := range p.Members {
		if p.Members[i].Alive() {
			n++
		}
	}
	return n
}

func (p *Party) FaintedCount() int { return len(p.Members) - p.AliveCount() }

// CanSwitchTo reports whether member i may come in for the current active.
func (p *Party) CanSwitchTo(i int) bool {
	return i >= 0 && i < len(p.Members) && i != p.Active && p.Members[i].Alive()
}

func (p *Party) TrySwitchTo(i int) bool {
	if !p.CanSwitchTo(i) {
		return false
	}
	p.Members[p.Active].resetOnSwitchOut()
	p.Active = i
	return true
}

// Bench lists the members that could switch in, in party order.
func (p *Party) Bench() []int {
	var out []int
	for i := range p.Members {
		if p.CanSwitchTo(i) {
			out = append(out, i)
		}
	}
	return out
}

func (p *Party) HPFraction() float64 {
	total, max := 0, 0
	for i := range p.Members {
		total += p.Members[i].HP
		max += p.Members[i].Stats.MaxHP
	}
	if max == 0 {
		return 0
	}
	return float64(total) / float64(max)
}

func (p *Party) clone() Party {
	out := *p
	out.Members = append([]Pokemon(nil), p.Members...)
	return out
}
