package tui

// Key bindings, as reported by tea.KeyMsg.String().
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyEsc      = "esc"
	keySlash    = "/"
	keyFilter   = "f"
	keySort     = "s"
	keyOrder    = "o"
	keyReload   = "r"
	keyLeft     = "left"
	keyRight    = "right"
	keyPgUp     = "pgup"
	keyPgDown   = "pgdown"
	keyPrevPage = "h"
	keyNextPage = "l"
)

const listHelp = "[/] Search  [f] Filter  [s] Sort  [o] Order  [←/→] Page  [r] Reload  [Enter] Details  [q] Quit"

const detailHelp = "[Esc] Back to list  [q] Quit"
