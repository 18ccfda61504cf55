package sim

// Exported key bits for InputFrame.KeysDown, mirroring the internal
// bit layout aiThink and presence transitions read (keyUp..keyWarp in
// ai.go/presence.go). Exported separately so input producers outside
// this package (a websocket reader, a chat command parser) can build a
// valid KeysDown value without reaching into package-private state.
const (
	KeyUp      uint32 = 1 << 0
	KeyDown    uint32 = 1 << 1
	KeyLeft    uint32 = 1 << 2
	KeyRight   uint32 = 1 << 3
	KeyPulse   uint32 = 1 << 4
	KeyBeam    uint32 = 1 << 5
	KeySpecial uint32 = 1 << 6
	KeyWarp    uint32 = 1 << 7
)

// WeaponKeyBit returns the key bit that fires the weapon in the given
// slot (0, 1, or 2+/special), matching weaponKeyBit's slot convention.
func WeaponKeyBit(slot int) uint32 {
	switch slot {
	case 0:
		return KeyPulse
	case 1:
		return KeyBeam
	default:
		return KeySpecial
	}
}
