package app

// Key binding constants used in handleKey.
const (
	KeyQuit      = "q"
	KeyQuitUpper = "Q"
	KeyCtrlC     = "ctrl+c"
	KeySpace     = " "
	KeyTab       = "tab"
	KeyShiftTab  = "shift+tab"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyJ         = "j"
	KeyK         = "k"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyBackspace = "backspace"
	KeySlash     = "/"

	KeyYes       = "y"
	KeyNo        = "n"
	KeyBack      = "b"
	KeyRetry     = "r"
	KeyVoice     = "v"
	KeyManual    = "m"
	KeyPause     = "p"
	KeyDelete    = "d"
	KeyClear     = "c"
	KeyLocate    = "l"
	KeyGuide     = "g"
	KeyHospitals = "h"
)

// tabKeys jump straight to a tab.
var tabKeys = map[string]Screen{
	"1": ScreenHome,
	"2": ScreenSearch,
	"3": ScreenHelper,
	"4": ScreenHospital,
	"5": ScreenSettings,
}
