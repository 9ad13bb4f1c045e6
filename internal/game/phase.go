package game

// Phase is the match's coarse lifecycle stage. Transitions are strictly
// forward: Lobby -> Dealing -> Playing -> GameOver. Resolving is reserved
// for round-based rulesets and never entered by this orchestrator.
type Phase uint8

const (
	PhaseLobby Phase = iota
	PhaseDealing
	PhasePlaying
	PhaseResolving
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseLobby:     "lobby",
	PhaseDealing:   "dealing",
	PhasePlaying:   "playing",
	PhaseResolving: "resolving",
	PhaseGameOver:  "game_over",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}
