package grid

// Kind - тип клітинки у справжньому світі.
type Kind int

const (
	Empty Kind = iota
	Obstacle
	Target
	Home
	Slow
)

var kindNames = [...]string{"empty", "obstacle", "target", "home", "slow"}

// Руни текстової карти. '#' - стіна, як у лабіринтах.
var kindRunes = [...]rune{'.', '#', 'G', 'H', '~'}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Rune повертає символ клітинки для текстової карти.
func (k Kind) Rune() rune {
	if k < 0 || int(k) >= len(kindRunes) {
		return '?'
	}
	return kindRunes[k]
}

// KindFromRune розбирає символ текстової карти.
func KindFromRune(r rune) (Kind, bool) {
	for i, kr := range kindRunes {
		if kr == r {
			return Kind(i), true
		}
	}
	return Empty, false
}
