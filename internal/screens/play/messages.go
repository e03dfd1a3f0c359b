package play

// tickMsg advances the countdown of the presenter holding Token.
type tickMsg struct {
	Token uint64
}

// revealDoneMsg ends the reveal window of the presenter holding Token.
type revealDoneMsg struct {
	Token uint64
}
