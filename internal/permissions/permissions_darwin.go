//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Cocoa
#import <ApplicationServices/ApplicationServices.h>
#import <Cocoa/Cocoa.h>

int checkAccessibilityPermission(int prompt) {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "errors"

// ErrAccessibilityDenied means global hotkeys cannot be delivered to the app.
var ErrAccessibilityDenied = errors.New("accessibility permission not granted")

// CheckAccessibility checks if the app has accessibility permissions (needed for hotkeys)
func CheckAccessibility() bool {
	return C.checkAccessibilityPermission(0) == 1
}

// EnsurePermissions prompts for accessibility access when it is missing.
// The system dialog is shown by AXIsProcessTrustedWithOptions itself.
func EnsurePermissions() error {
	if CheckAccessibility() {
		return nil
	}
	if C.checkAccessibilityPermission(1) == 1 {
		return nil
	}
	return ErrAccessibilityDenied
}
