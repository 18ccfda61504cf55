package chat

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"antares/internal/sim"
)

// InputSink is the subset of the simulation host a command handler
// needs: somewhere to hand off the InputFrame a command produces.
type InputSink interface {
	SubmitInput(sim.InputFrame)
}

// Handler parses chat commands and turns them into InputFrame updates
// for the shared ship. There is exactly one ship under audience control,
// so the handler keeps one running InputFrame and mutates it in place
// per command rather than looking one up per user.
type Handler struct {
	sink        InputSink
	rateLimiter *RateLimiter

	mu      sync.Mutex
	current sim.InputFrame
}

// NewHandler creates a new command handler targeting sink.
func NewHandler(sink InputSink) *Handler {
	return &Handler{
		sink:        sink,
		rateLimiter: NewRateLimiter(DefaultRateLimitConfig),
	}
}

// ProcessCommand handles a single command.
func (h *Handler) ProcessCommand(cmd ChatCommand) {
	if !h.rateLimiter.Allow(cmd.Username) {
		log.Printf("chat: rate limited: %s", cmd.Username)
		return
	}

	switch GetCommandType(strings.ToLower(cmd.Command)) {
	case CmdTarget:
		h.handleTarget(cmd)
	case CmdWarp:
		h.handleWarp(cmd)
	case CmdWeapon:
		h.handleWeapon(cmd)
	case CmdHelp:
		h.handleHelp(cmd)
	default:
		// Unknown command - silently ignore.
	}
}

// handleTarget sets the selection the next tick applies to the
// audience-controlled ship: "!target 7" targets arena slot 7.
func (h *Handler) handleTarget(cmd ChatCommand) {
	if len(cmd.Args) == 0 {
		log.Printf("chat: usage: !target <slot>")
		return
	}
	slot, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		log.Printf("chat: %s: invalid slot %q", cmd.Username, cmd.Args[0])
		return
	}

	h.mu.Lock()
	h.current.HasSelection = true
	h.current.SelectionID = int32(slot)
	frame := h.current
	h.mu.Unlock()

	h.sink.SubmitInput(frame)
	log.Printf("chat: %s targeted slot %d", cmd.Username, slot)
}

// handleWarp toggles the warp key bit.
func (h *Handler) handleWarp(cmd ChatCommand) {
	h.mu.Lock()
	h.current.KeysDown ^= sim.KeyWarp
	frame := h.current
	engaged := frame.KeysDown&sim.KeyWarp != 0
	h.mu.Unlock()

	h.sink.SubmitInput(frame)
	if engaged {
		log.Printf("chat: %s engaged warp", cmd.Username)
	} else {
		log.Printf("chat: %s disengaged warp", cmd.Username)
	}
}

// handleWeapon toggles the fire key for a weapon slot: "!weapon 0"
// fires the primary (pulse) weapon, "1" the secondary (beam), anything
// else the special weapon.
func (h *Handler) handleWeapon(cmd ChatCommand) {
	slot := 2
	if len(cmd.Args) > 0 {
		if n, err := strconv.Atoi(cmd.Args[0]); err == nil {
			slot = n
		}
	}
	bit := sim.WeaponKeyBit(slot)

	h.mu.Lock()
	h.current.KeysDown ^= bit
	frame := h.current
	firing := frame.KeysDown&bit != 0
	h.mu.Unlock()

	h.sink.SubmitInput(frame)
	if firing {
		log.Printf("chat: %s is firing weapon slot %d", cmd.Username, slot)
	} else {
		log.Printf("chat: %s ceased firing weapon slot %d", cmd.Username, slot)
	}
}

func (h *Handler) handleHelp(cmd ChatCommand) {
	log.Printf("chat: commands: !target <slot> | !warp | !weapon <0|1|2> | !help")
}

// Run starts processing commands from a channel (call in goroutine).
func (h *Handler) Run(commands <-chan ChatCommand) {
	for cmd := range commands {
		h.ProcessCommand(cmd)
	}
	log.Println("chat: command handler stopped")
}
