package icon

// Icon identifies a renderable CLI symbol.
type Icon int

const (
	Progress Icon = iota
	Success
	Fail
	Download
	Music
	Trash
)

// icons is the global registry mapping each Icon identifier to its variant definitions.
var icons = map[Icon]*iconDef{
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(～￣▽￣)～",
		squares: "◩",
	},
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "[ok]",
		kaomoji: "(￣︶￣)",
		squares: "▣",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "[!]",
		kaomoji: "(╯°□°)╯",
		squares: "▨",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "[v]",
		kaomoji: "┌(・。・)┘",
		squares: "▼",
	},
	Music: {
		emoji:   "🎵",
		nerd:    "",
		plain:   "[~]",
		kaomoji: "(^_^♪)",
		squares: "◈",
	},
	Trash: {
		emoji:   "🗑️",
		nerd:    "",
		plain:   "[x]",
		kaomoji: "(o‿o)",
		squares: "▤",
	},
}
