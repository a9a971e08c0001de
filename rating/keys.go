package rating

// Key is a host-independent key. Hosts map their own key events onto it.
type Key int

const (
	KeyNone Key = iota
	// KeyIncrease is rightward/upward.
	KeyIncrease
	// KeyDecrease is leftward/downward.
	KeyDecrease
	// KeyHome jumps to 0.
	KeyHome
	// KeyEnd jumps to Max.
	KeyEnd
	// KeyActivate commits the previewed slot.
	KeyActivate
)

var keyNames = map[Key]string{
	KeyNone:     "none",
	KeyIncrease: "increase",
	KeyDecrease: "decrease",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyActivate: "activate",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "none"
}
