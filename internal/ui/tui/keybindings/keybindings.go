package keybindings

import tea "github.com/charmbracelet/bubbletea"

// Action represents a specific action that can be triggered by a key
type Action string

// Define all possible actions
const (
	// Global actions
	ActionQuit Action = "quit"
	ActionBack Action = "back" // General purpose "go back" or "cancel"

	// Auth view actions
	ActionLogin         Action = "login"
	ActionPasteCallback Action = "paste_callback"

	// Paste mode actions
	ActionSubmitCallback Action = "submit_callback"

	// Token view actions
	ActionCopyToken Action = "copy_token"
	ActionReauth    Action = "reauth"
)

// ContextName represents a specific UI context in the application that has its own keybinds
type ContextName string

const (
	ContextGlobal ContextName = "global"
	ContextAuth   ContextName = "auth"
	ContextPaste  ContextName = "paste"
	ContextToken  ContextName = "token"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal: globalBindings,
	ContextAuth:   authBindings,
	ContextPaste:  pasteBindings,
	ContextToken:  tokenBindings,
}

// KeyMap stores the mappings from actions to key sequences for each context
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string // Description for help screen
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

// globalBindings contains key bindings that work across all views
var globalBindings = []Binding{
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "ctrl+c",
			Help:    "Quit application",
		},
	},
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary: "esc",
			Help:    "Go back/cancel current action",
		},
	},
}

// authBindings contains key bindings specific to the auth view
var authBindings = []Binding{
	{
		Action: ActionLogin,
		KeyMap: KeyMap{
			Primary:   "enter",
			Secondary: "l",
			Help:      "Start login process",
		},
	},
	{
		Action: ActionPasteCallback,
		KeyMap: KeyMap{
			Primary: "p",
			Help:    "Paste the callback URL manually",
		},
	},
}

// pasteBindings contains key bindings for the manual callback entry field
var pasteBindings = []Binding{
	{
		Action: ActionSubmitCallback,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Submit the pasted callback URL",
		},
	},
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary: "esc",
			Help:    "Cancel manual entry",
		},
	},
}

// tokenBindings contains key bindings specific to the token view
var tokenBindings = []Binding{
	{
		Action: ActionCopyToken,
		KeyMap: KeyMap{
			Primary: "c",
			Help:    "Copy the access token to the clipboard",
		},
	},
	{
		Action: ActionReauth,
		KeyMap: KeyMap{
			Primary: "r",
			Help:    "Run the authorization flow again",
		},
	},
}

// GetActionKey returns the primary key for an action
func GetActionKey(action Action, bindings []Binding) string {
	for _, binding := range bindings {
		if binding.Action == action {
			return binding.KeyMap.Primary
		}
	}
	return ""
}

// GetActionByKey returns just the action for a given key, or an empty Action if not found
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	if bindings, exists := ContextBindings[name]; exists {
		key := keyMsg.String()
		for _, binding := range bindings {
			if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
				return binding.Action
			}
		}
	}
	return ""
}

// FormatKeyHelp formats a key binding for display in help text
func FormatKeyHelp(binding Binding) string {
	if binding.KeyMap.Secondary != "" {
		return binding.KeyMap.Primary + "/" + binding.KeyMap.Secondary + ": " + binding.KeyMap.Help
	}
	return binding.KeyMap.Primary + ": " + binding.KeyMap.Help
}
