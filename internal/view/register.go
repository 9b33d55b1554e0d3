package view

import "github.com/Elisabitao/brackets/internal/command"

// Command identifiers registered by this package.
const (
	CmdIncreaseFontSize = "view.increaseFontSize"
	CmdDecreaseFontSize = "view.decreaseFontSize"
	CmdRestoreFontSize  = "view.restoreFontSize"
	CmdScrollLineUp     = "view.scrollLineUp"   // Ctrl+Shift+Up
	CmdScrollLineDown   = "view.scrollLineDown" // Ctrl+Shift+Down
)

// Register publishes the view commands. The font-size commands are
// reachable through the palette only; the scroll commands additionally
// advertise their default chords for display.
func Register(reg *command.Registry, fonts *FontAdjuster, scroller *LineScroller) error {
	commands := []*command.Command{
		{
			ID:          CmdIncreaseFontSize,
			Title:       "Increase Font Size",
			Description: "Grow the editor font and line height by one step",
			Category:    "View",
			Handler: func(map[string]any) error {
				fonts.Adjust(Grow)
				return nil
			},
			Source: "core",
		},
		{
			ID:          CmdDecreaseFontSize,
			Title:       "Decrease Font Size",
			Description: "Shrink the editor font and line height by one step",
			Category:    "View",
			Handler: func(map[string]any) error {
				fonts.Adjust(Shrink)
				return nil
			},
			Source: "core",
		},
		{
			ID:          CmdRestoreFontSize,
			Title:       "Restore Font Size",
			Description: "Remove the dynamic font override",
			Category:    "View",
			Handler: func(map[string]any) error {
				fonts.Restore()
				return nil
			},
			Source: "core",
		},
		{
			ID:         CmdScrollLineUp,
			Title:      "Scroll Line Up",
			Category:   "Scrolling",
			Keybinding: "Ctrl+Shift+Up",
			Handler: func(map[string]any) error {
				scroller.ScrollLine(-1)
				return nil
			},
			Source: "core",
		},
		{
			ID:         CmdScrollLineDown,
			Title:      "Scroll Line Down",
			Category:   "Scrolling",
			Keybinding: "Ctrl+Shift+Down",
			Handler: func(map[string]any) error {
				scroller.ScrollLine(1)
				return nil
			},
			Source: "core",
		},
	}
	return reg.RegisterAll(commands)
}
