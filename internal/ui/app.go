package ui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/varimat/varimat/internal/config"
	"github.com/varimat/varimat/internal/grid"
	"github.com/varimat/varimat/internal/logging"
)

// Run opens the viewer over the two folders. Folder arguments left empty are
// prompted for with a directory picker before the grid is built; cancelling a
// picker exits. Run blocks until the window closes.
func Run(cfg *config.Config, baseFolder, variantsRoot string) error {
	if baseFolder != "" && variantsRoot != "" {
		// Both folders given up front: fail fast on an unusable base folder
		// before any window appears.
		g, err := grid.Build(baseFolder, variantsRoot)
		if err != nil {
			return err
		}
		a := app.New()
		w := a.NewWindow(windowTitle(baseFolder))
		w.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
		showViewer(a, w, cfg, g, baseFolder, variantsRoot)
		w.ShowAndRun()
		return nil
	}

	a := app.New()
	w := a.NewWindow("Varimat")
	w.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	chooseFolders(a, w, cfg, baseFolder, variantsRoot)
	w.ShowAndRun()
	return nil
}

// chooseFolders walks the user through the missing folder selections, then
// builds the grid off the UI goroutine and swaps the viewer in.
func chooseFolders(a fyne.App, w fyne.Window, cfg *config.Config, baseFolder, variantsRoot string) {
	prompt := func(text string) {
		w.SetContent(container.NewCenter(widget.NewLabel(text)))
	}

	finish := func() {
		prompt("Building grid...")
		go func() {
			g, err := grid.Build(baseFolder, variantsRoot)
			fyne.Do(func() {
				if err != nil {
					logging.Debug.Printf("build grid: %v", err)
					d := dialog.NewError(err, w)
					d.SetOnClosed(a.Quit)
					d.Show()
					return
				}
				w.SetTitle(windowTitle(baseFolder))
				showViewer(a, w, cfg, g, baseFolder, variantsRoot)
			})
		}()
	}

	pickVariants := func() {
		if variantsRoot != "" {
			finish()
			return
		}
		prompt("Select the variants root folder")
		pickFolder(w, "Select the variants root folder", func(dir string) {
			if dir == "" {
				a.Quit()
				return
			}
			variantsRoot = dir
			finish()
		})
	}

	if baseFolder != "" {
		pickVariants()
		return
	}
	prompt("Select the base images folder")
	pickFolder(w, "Select the base images folder", func(dir string) {
		if dir == "" {
			a.Quit()
			return
		}
		baseFolder = dir
		pickVariants()
	})
}

func showViewer(a fyne.App, w fyne.Window, cfg *config.Config, g *grid.Grid, baseFolder, variantsRoot string) {
	v := newViewer(g, cfg,
		func() (*grid.Grid, error) {
			ng, err := grid.Build(baseFolder, variantsRoot)
			if err != nil {
				dialog.ShowError(err, w)
			}
			return ng, err
		},
		a.Quit)
	w.SetContent(v)
	w.Canvas().Focus(v)
}

func windowTitle(baseFolder string) string {
	return "Varimat - " + filepath.Base(baseFolder)
}
