package combat

// Flat layout written by Encode, from the point of view of one side:
//
//	[0, 150)    own party, 6 slots x PokemonFeatures
//	[150, 300)  opposing party, 6 slots x PokemonFeatures
//	300         phase (0 turn start, 1 replacement pending)
//	301         turn / 100
//
// Each slot: alive, hp fraction, level/100, 7 stages/6, status one-hot (6), volatile bits (6),
// active flag, primary type/18, secondary type/18. Empty slots are all zero.
const (
	PokemonFeatures = 25
	EncodeLen       = 2*MaxPartySize*PokemonFeatures + 2
)

func encodePokemon(dst []float64, p *Pokemon, active bool) {
	if p.Alive() {
		dst[0] = 1
	}
	dst[1] = p.HPFraction()
	dst[2] = float64(p.Level) / 100
	for i, s := range p.Stages {
		dst[3+i] = float64(s) / 6
	}
	if p.Status != StatusNone {
		dst[10+int(p.Status)-1] = 1
	}
	for i := 0; i < numVolatiles; i++ {
		if p.Volatile.Has(Volatile(1 << i)) {
			dst[16+i] = 1
		}
	}
	if active {
		dst[22] = 1
	}
	dst[23] = float64(p.Types[0]) / float64(numTypes-1)
	dst[24] = float64(p.Types[1]) / float64(numTypes-1)
}

// Encode serializes st into the fixed-length vector documented above.
func Encode(st *BattleState, side Side) []float64 {
	out := make([]float64, EncodeLen)
	for k, s := range [2]Side{side, side.Other()} {
		party := st.Party(s)
		base := k * MaxPartySize * PokemonFeatures
		for i := range party.Members {
			if i >= MaxPartySize {
				break
			}
			off := base + i*PokemonFeatures
			encodePokemon(out[off:off+PokemonFeatures], &party.Members[i], i == party.Active)
		}
	}
	if st.Phase == PhaseDeathEndOfTurn {
		out[EncodeLen-2] = 1
	}
	out[EncodeLen-1] = float64(st.Turn) / 100
	return out
}
