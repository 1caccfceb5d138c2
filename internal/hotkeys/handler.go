package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/focusframe/internal/x11"
)

// Handler manages the daemon's global keyboard shortcut.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	mu    sync.Mutex
	bound string
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the connection's root window.
func NewHandler(conn *x11.Connection, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:     conn.XUtil,
		root:   conn.Root,
		logger: logger.With("component", "hotkeys"),
	}
}

// Bind replaces the current binding with keySequence (for example
// "Mod4-Shift-f"). An empty sequence only removes the current binding.
func (h *Handler) Bind(keySequence string, callback func()) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if keySequence == h.bound && keySequence != "" {
		return nil
	}
	if h.bound != "" {
		keybind.Detach(h.xu, h.root)
		h.logger.Debug("hotkey unbound", "keys", h.bound)
		h.bound = ""
	}
	if keySequence == "" {
		return nil
	}

	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey triggered", "keys", keySequence)
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}
	h.bound = keySequence
	h.logger.Info("hotkey bound", "keys", keySequence)
	return nil
}

// configureIgnoreMods makes bindings fire regardless of CapsLock, NumLock
// and ScrollLock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	unique[0] = struct{}{}

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	for _, mask := range lockCombinations(base) {
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

// lockCombinations returns every non-empty OR of the given masks.
func lockCombinations(base []uint16) []uint16 {
	out := make([]uint16, 0, (1<<len(base))-1)
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
