package hotkey

// keyNames lists the canonical key names accepted in accelerators. Each
// backend maps them to its own key codes.
var keyNames = map[string]bool{
	"space": true, "enter": true, "escape": true, "delete": true, "tab": true,
	"left": true, "right": true, "up": true, "down": true,

	"0": true, "1": true, "2": true, "3": true, "4": true,
	"5": true, "6": true, "7": true, "8": true, "9": true,

	"a": true, "b": true, "c": true, "d": true, "e": true, "f": true, "g": true,
	"h": true, "i": true, "j": true, "k": true, "l": true, "m": true, "n": true,
	"o": true, "p": true, "q": true, "r": true, "s": true, "t": true, "u": true,
	"v": true, "w": true, "x": true, "y": true, "z": true,

	"f1": true, "f2": true, "f3": true, "f4": true, "f5": true, "f6": true,
	"f7": true, "f8": true, "f9": true, "f10": true, "f11": true, "f12": true,
}
