package app

// Key binding constants used in handleKey.
const (
	KeyCtrlC     = "ctrl+c"
	KeyTab       = "tab"
	KeyShiftTab  = "shift+tab"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyUpload    = "ctrl+o"
	KeyGenerate  = "ctrl+g"
	KeyEditSave  = "ctrl+e"
	KeySendEmail = "ctrl+s"
)
