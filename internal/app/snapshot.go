package app

import (
	"fmt"
	"os"

	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/editor"
	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/input"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/render/raster"
)

// Snapshot size in pixels.
const (
	snapshotWidth  = 960
	snapshotHeight = 640
)

// writeSnapshot renders the first of paths without a terminal and writes
// the frame to out as PNG.
func writeSnapshot(out string, paths []string, cfg config.Config, engine *highlight.Engine, theme highlight.Theme) error {
	ras, err := raster.New(cfg.Editor.Font)
	if err != nil {
		return err
	}
	ed := editor.New(cfg, editor.Deps{Rasterizer: ras, Highlight: engine, Theme: theme})
	if len(paths) > 0 {
		if err := ed.Open(paths[0]); err != nil {
			return err
		}
	}
	ed.HandleFocus(input.FocusEvent{Focused: true})
	ed.Resize(snapshotWidth, snapshotHeight)
	ed.Draw()

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := ras.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("snapshot", "path", out, "document", ed.Name())
	return nil
}
