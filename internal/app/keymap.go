package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyQuitUpper  = "Q"
	KeyCtrlC      = "ctrl+c"
	KeySpace      = " "
	KeyTab        = "tab"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyJ          = "j"
	KeyK          = "k"
	KeyEnter      = "enter"
	KeyEsc        = "esc"
	KeyBackspace  = "backspace"
	KeyAddCustom  = "a"
	KeyRegenerate = "g"
	KeyRetry      = "y"
	KeyDiscard    = "d"
	KeyVoice      = "v"
	KeyPreview    = "p"
	KeyScript     = "e"
	KeyAspect     = "r"
)
