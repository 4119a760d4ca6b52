//go:build flatpak

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/storage"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"

	"github.com/varimat/varimat/internal/logging"
)

// pickFolder routes through the XDG desktop portal so the sandboxed build
// gets a native chooser with real filesystem access. The portal call blocks,
// so it runs off the UI goroutine and delivers through fyne.Do.
func pickFolder(win fyne.Window, title string, cb func(dir string)) {
	options := &filechooser.OpenFileOptions{
		AcceptLabel: "Open",
		Directory:   true,
	}
	handle := windowHandleForPortal(win)

	go func() {
		uris, err := filechooser.OpenFile(handle, title, options)
		if err != nil || len(uris) == 0 {
			if err != nil {
				logging.Debug.Printf("portal folder pick: %v", err)
			}
			fyne.Do(func() { cb("") })
			return
		}
		uri, err := storage.ParseURI(uris[0])
		if err != nil {
			logging.Debug.Printf("portal folder pick: parse %q: %v", uris[0], err)
			fyne.Do(func() { cb("") })
			return
		}
		fyne.Do(func() { cb(uri.Path()) })
	}()
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	handle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			handle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return handle
}
