package commands

import (
	"fmt"

	"github.com/Shakir788/cortexV3/internal/whatsapp"
)

// Menu row identifiers. These IDs are the only values acted on when a
// selection comes back as an interactive reply.
const (
	MenuIDProfile  = "menu_profile"
	MenuIDDream    = "menu_dream"
	MenuIDHelp     = "menu_help"
	MenuIDRemember = "menu_remember"
)

// BuildMenu constructs the interactive list menu sent in response to
// greeting keywords.
func (i *Interpreter) BuildMenu() *whatsapp.Interactive {
	return &whatsapp.Interactive{
		Type: "list",
		Header: &whatsapp.InteractiveHeader{
			Type: "text",
			Text: fmt.Sprintf("Namaste! Main %s hoon 🤖", i.assistantName),
		},
		Body: whatsapp.InteractiveBody{
			Text: fmt.Sprintf("%s, main aapki kaise madad kar sakta hoon? Neeche se option chunein ya seedha message likhein.", i.profile.Name),
		},
		Footer: &whatsapp.InteractiveFooter{
			Text: "Aapka Personal AI Assistant",
		},
		Action: whatsapp.InteractiveAction{
			Button: "Options dekhein",
			Sections: []whatsapp.Section{
				{
					Title: "Commands",
					Rows: []whatsapp.Row{
						{ID: MenuIDProfile, Title: "Profile", Description: "Mere baare mein sab kuch jano"},
						{ID: MenuIDDream, Title: "Dreams & Goals", Description: "Aapke goals aur sapne"},
						{ID: MenuIDRemember, Title: "Remember", Description: "Koi baat hamesha ke liye yaad dilao"},
						{ID: MenuIDHelp, Title: "Help", Description: "Sab commands ki list"},
					},
				},
			},
		},
	}
}

// ResolveMenuSelection maps a selected menu row ID back to its reply. The
// human-readable title is only used for the fallback when the ID is unknown.
func (i *Interpreter) ResolveMenuSelection(id, title string) *Reply {
	switch id {
	case MenuIDProfile:
		return &Reply{Text: i.profileReply()}
	case MenuIDDream:
		return &Reply{Text: i.dreamReply()}
	case MenuIDHelp:
		return &Reply{Text: i.helpReply()}
	case MenuIDRemember:
		return &Reply{Text: "Mujhe kuch bhi yaad dilane ke liye likhein: `!remember [FACT]`. Jaise: `!remember mera dog ka naam Tiger hai`"}
	default:
		return &Reply{Text: fmt.Sprintf(
			"Hmm, '%s' option main abhi nahi samajh paya. `!help` likh ke saari commands dekhein.", title)}
	}
}
