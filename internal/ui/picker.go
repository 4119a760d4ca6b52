//go:build !flatpak

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// pickFolder prompts for a directory with the stock folder dialog and hands
// the chosen path to cb on the UI goroutine. Cancel delivers "".
func pickFolder(win fyne.Window, title string, cb func(dir string)) {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			cb("")
			return
		}
		cb(dir.Path())
	}, win)
}
