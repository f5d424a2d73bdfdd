package tui

// Action is something the menu asks the host program to do.
type Action int

const (
	ActionNone Action = iota
	ActionRead
	ActionGetLabel
	ActionRemove
	ActionAddArxiv
	ActionAddLink
	ActionAddPDF
	ActionSync
)

// String names the action for logs and status messages.
func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionGetLabel:
		return "get-label"
	case ActionRemove:
		return "remove"
	case ActionAddArxiv:
		return "add-arxiv"
	case ActionAddLink:
		return "add-link"
	case ActionAddPDF:
		return "add-pdf"
	case ActionSync:
		return "sync"
	default:
		return "none"
	}
}

type menuID int

const (
	menuMain menuID = iota
	menuBrowse
	menuAdd
	menuSync
)

// item is a menu entry. Selecting it either opens a submenu, returns to the
// parent, quits, or runs an action.
type item struct {
	label  string
	action Action
	open   menuID
	back   bool
	quit   bool
}

type menu struct {
	title  string
	parent menuID
	items  []item
}

var menus = map[menuID]menu{
	menuMain: {
		title: "Main Menu",
		items: []item{
			{label: "Browse/Manage Papers", open: menuBrowse},
			{label: "Add Papers", open: menuAdd},
			{label: "Sync Manager", open: menuSync},
			{label: "Exit", quit: true},
		},
	},
	menuBrowse: {
		title:  "Browse/Manage Papers",
		parent: menuMain,
		items: []item{
			{label: "Read Paper (Fuzzy Find)", action: ActionRead},
			{label: "Get Paper Label", action: ActionGetLabel},
			{label: "Remove Paper", action: ActionRemove},
			{label: "Return", back: true},
		},
	},
	menuAdd: {
		title:  "Add Papers",
		parent: menuMain,
		items: []item{
			{label: "Add arXiv Paper", action: ActionAddArxiv},
			{label: "Add Web Link", action: ActionAddLink},
			{label: "Add PDF Paper", action: ActionAddPDF},
			{label: "Return", back: true},
		},
	},
	menuSync: {
		title:  "Sync Manager",
		parent: menuMain,
		items: []item{
			{label: "Sync with Remote Repository", action: ActionSync},
			{label: "Return", back: true},
		},
	},
}
