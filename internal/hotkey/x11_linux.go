//go:build linux

package hotkey

/*
#cgo pkg-config: x11
#include <X11/Xlib.h>
#include <X11/keysym.h>
#include <stdlib.h>

static int grabFailed = 0;

static int onXError(Display* d, XErrorEvent* e) {
    if (e->error_code == BadAccess) grabFailed = 1;
    return 0;
}

static Display* openDisplay(void) {
    Display* d = XOpenDisplay(NULL);
    if (d != NULL) XSetErrorHandler(onXError);
    return d;
}

static int keycodeFor(Display* d, const char* name) {
    KeySym sym = XStringToKeysym(name);
    if (sym == NoSymbol) return 0;
    return XKeysymToKeycode(d, sym);
}

static unsigned int lockVariants[] = {0, LockMask, Mod2Mask, LockMask | Mod2Mask};

static void ungrabKey(Display* d, int keycode, unsigned int mods) {
    Window root = DefaultRootWindow(d);
    for (int i = 0; i < 4; i++) {
        XUngrabKey(d, keycode, mods | lockVariants[i], root);
    }
    XSync(d, False);
}

// Grabs the combination with and without CapsLock/NumLock held.
static int grabKey(Display* d, int keycode, unsigned int mods) {
    Window root = DefaultRootWindow(d);
    grabFailed = 0;
    for (int i = 0; i < 4; i++) {
        XGrabKey(d, keycode, mods | lockVariants[i], root, False, GrabModeAsync, GrabModeAsync);
    }
    XSync(d, False);
    if (grabFailed) {
        ungrabKey(d, keycode, mods);
        return 0;
    }
    return 1;
}

static int nextKeyPress(Display* d, int* keycode, unsigned int* mods) {
    XEvent event;
    while (XPending(d) > 0) {
        XNextEvent(d, &event);
        if (event.type == KeyPress) {
            *keycode = event.xkey.keycode;
            *mods = event.xkey.state & (ShiftMask | ControlMask | Mod1Mask | Mod4Mask);
            return 1;
        }
    }
    return 0;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

var errNoDisplay = errors.New("cannot open X display")

// xDisplay is a connection to the X server. It is not safe for concurrent
// use; x11Manager serializes every call.
type xDisplay struct {
	ptr *C.Display
}

func openX11() (*xDisplay, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("%w: DISPLAY not set", errNoDisplay)
	}
	ptr := C.openDisplay()
	if ptr == nil {
		return nil, fmt.Errorf("%w: %s", errNoDisplay, os.Getenv("DISPLAY"))
	}
	return &xDisplay{ptr: ptr}, nil
}

func (d *xDisplay) Keycode(keysym string) (int, error) {
	cs := C.CString(keysym)
	defer C.free(unsafe.Pointer(cs))

	code := int(C.keycodeFor(d.ptr, cs))
	if code == 0 {
		return 0, fmt.Errorf("no keycode for keysym %q", keysym)
	}
	return code, nil
}

func (d *xDisplay) Grab(keycode int, mods uint) error {
	if C.grabKey(d.ptr, C.int(keycode), C.uint(mods)) == 0 {
		return errors.New("key combination is grabbed by another client")
	}
	return nil
}

func (d *xDisplay) Ungrab(keycode int, mods uint) {
	C.ungrabKey(d.ptr, C.int(keycode), C.uint(mods))
}

func (d *xDisplay) NextKeyPress() (int, uint, bool) {
	var keycode C.int
	var mods C.uint
	if C.nextKeyPress(d.ptr, &keycode, &mods) == 0 {
		return 0, 0, false
	}
	return int(keycode), uint(mods), true
}

func (d *xDisplay) Close() error {
	C.XCloseDisplay(d.ptr)
	d.ptr = nil
	return nil
}
