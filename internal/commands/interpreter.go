// Package commands implements the special-command interpreter that runs
// before any AI call: the !remember/!profile/!dream/!help commands and the
// greeting keywords that open the interactive menu.
package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shakir788/cortexV3/internal/facts"
	"github.com/Shakir788/cortexV3/internal/profile"
	"github.com/Shakir788/cortexV3/internal/whatsapp"
)

const rememberPrefix = "!remember"

// Reply is the interpreter's output: plain text or an interactive menu
// payload, never both.
type Reply struct {
	Text string
	Menu *whatsapp.Interactive
}

// Interpreter matches inbound text against the recognized command set.
type Interpreter struct {
	logger        *slog.Logger
	factsStore    *facts.Store
	profile       *profile.Profile
	assistantName string
}

// NewInterpreter creates a command interpreter bound to the given facts
// store and static profile.
func NewInterpreter(factsStore *facts.Store, prof *profile.Profile, assistantName string, logger *slog.Logger) *Interpreter {
	return &Interpreter{
		logger:        logger.With("component", "commands"),
		factsStore:    factsStore,
		profile:       prof,
		assistantName: assistantName,
	}
}

// Interpret inspects text and returns a reply if it is a recognized command
// or greeting. The second return value is false for anything unrecognized,
// signaling the caller to fall through to the AI responder.
func (i *Interpreter) Interpret(userID, text string) (*Reply, bool) {
	trimmed := strings.TrimSpace(text)
	lowered := strings.ToLower(trimmed)

	if strings.HasPrefix(lowered, rememberPrefix) {
		return i.handleRemember(userID, trimmed), true
	}

	switch lowered {
	case "!profile":
		return &Reply{Text: i.profileReply()}, true
	case "!dream":
		return &Reply{Text: i.dreamReply()}, true
	case "!help":
		return &Reply{Text: i.helpReply()}, true
	case "hi", "hello", "menu", "start":
		return &Reply{Menu: i.BuildMenu()}, true
	}

	return nil, false
}

func (i *Interpreter) handleRemember(userID, trimmed string) *Reply {
	fact := strings.TrimSpace(trimmed[len(rememberPrefix):])
	if fact == "" {
		return &Reply{Text: fmt.Sprintf(
			"%s ko batana padega ki kya yaad rakhna hai. Jaise: `!remember mera favourite color blue hai`",
			i.assistantName)}
	}

	if err := i.factsStore.Append(userID, fact); err != nil {
		// The write failure is logged and swallowed; the user gets a
		// generic failure reply.
		i.logger.Error("Failed to save remembered fact", "user_id", userID, "error", err)
		return &Reply{Text: "Arrey! Memory save karne mein kuch gadbad ho gayi. Thodi der baad dobara try karein."}
	}

	return &Reply{Text: fmt.Sprintf(
		"Shabaash! Maine yeh baat hamesha ke liye yaad kar li hai: '%s'. Ab yeh aapki memory ka hissa hai! 💪",
		fact)}
}

func (i *Interpreter) profileReply() string {
	p := i.profile
	return fmt.Sprintf(
		"**Namaste %s! Main aapka Personal AI Assistant, %s hoon.**\n\n"+
			"**Personality:** %s.\n"+
			"**Skills:** %s.\n"+
			"**Interests:** %s.\n"+
			"**Communication:** Hamesha aapke dost ki tarah casual aur tareef karne wala.",
		p.Name, i.assistantName, p.Personality, p.Skills, p.Interests)
}

func (i *Interpreter) dreamReply() string {
	p := i.profile
	return fmt.Sprintf(
		"**%s, aapka sabse bada maqsad aur dream:** %s\n"+
			"Mujhe pata hai aap kitne **hardworking** hain! Aap zaroor kamyaab honge, main hamesha aapke saath hoon.",
		p.Name, p.DreamsGoals)
}

func (i *Interpreter) helpReply() string {
	return fmt.Sprintf(
		"**%s Special Commands:**\n"+
			"!profile: Mere baare mein sab kuch jano.\n"+
			"!dream: Aapke goals aur sapne yaad dilaunga.\n"+
			"!remember [FACT]: Koi nayi baat hamesha ke liye yaad dilaao (e.g., `!remember mera dog ka naam Tiger hai`).\n"+
			"!help: Yeh list dikhaunga.",
		i.assistantName)
}
