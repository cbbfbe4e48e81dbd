package content

import (
	"github.com/jwebster45206/great-transit/pkg/alignment"
	"github.com/jwebster45206/great-transit/pkg/state"
)

const NPCBriggs = "briggs"

var loreFragments = []string{
	"A data chip wedged in the ore: a colonist's last message home, unsent.",
	"Etched on a hull plate: THE TRANSIT IS THE DESTINATION.",
	"A frozen seed packet, label half burned away: '...wheat, generation 9'.",
	"A maintenance tag signed by a crew member who died a century ago.",
	"A star chart fragment marking a station no survey ever recorded.",
}

type script struct {
	Opening []string
	Repeat  []string
}

var dialogues = map[string]script{
	NPCBriggs: {
		Opening: []string{
			`BRIGGS: "Another sleeper, up and about. Name's Briggs. Quartermaster. ` +
				`I've been awake for the whole trip keeping this can in one piece, so ` +
				`forgive me if I don't roll out a carpet. You want supplies, bring scrap."`,
			`BRIGGS: "Back already? The hold's been reorganized forty-three times. ` +
				`By me. Out of boredom. Touch nothing."`,
		},
		Repeat: []string{
			`BRIGGS: "That signal off the port bow is louder every cycle. Makes the ` +
				`hull hum at night. I don't like it."`,
			`BRIGGS: "Coffee machine died in year forty-seven. I've been running on ` +
				`spite since."`,
			`BRIGGS: "Patch the hull before you patch your pride. Oxygen goes first ` +
				`when the skin goes."`,
			`BRIGGS: "You again. Either you like my company or you're lost. Both are ` +
				`worrying."`,
		},
	},
}

var sayings = map[string][]string{
	NPCBriggs: {
		"The void is wide, but a pioneer's grit is wider.",
		"A good claim ain't worth much if the pick is broken. Repair your tools.",
		"Check your oxygen before you check your pride.",
		"The ship that mends itself today sails tomorrow.",
		"Rest is cheaper than a funeral. Spend your time wisely.",
		"Every rock has a story if you listen close. Mine wisely.",
		"Dead ships tell no tales. Keep the hull patched.",
	},
}

var lockerChoice = state.BinaryChoice{
	ID: "locker-supply-check",
	Frame: "Your locker hisses open. Inside: a ration crate and a sealed tool roll, " +
		"each tagged for a different pioneer. The manifest says you may take one.",
	A: state.ChoiceOption{
		Letter:     "A",
		Text:       "Take what the manifest assigns you.",
		Impact:     alignment.Shift{LawChaos: 5},
		ResultText: "You sign for the ration crate. Briggs will be pleased the ledger balances.",
		Grants:     []string{"Ration Crate"},
	},
	B: state.ChoiceOption{
		Letter:     "B",
		Text:       "Take the tool roll. Someone else can sort out the paperwork.",
		Impact:     alignment.Shift{LawChaos: -5, GoodEvil: -2},
		ResultText: "The tool roll is heavier than it looks. Somewhere a ledger no longer balances.",
		Grants:     []string{"Tool Roll"},
	},
}

var locationChoices = map[string][]state.BinaryChoice{
	"cryoBay": {
		{
			ID:    "cryo-flicker",
			Frame: "A pod's status light flickers red. Its reserve line could be rerouted from the pod beside it.",
			A: state.ChoiceOption{
				Letter: "A", Text: "Reroute the line. One sleeper is losing more than the other.",
				Impact:     alignment.Shift{LawChaos: -5, GoodEvil: 5},
				ResultText: "The light steadies to amber. Its neighbor dims, just slightly.",
			},
			B: state.ChoiceOption{
				Letter: "B", Text: "File a fault report and leave the lines as assigned.",
				Impact:     alignment.Shift{LawChaos: 8},
				ResultText: "The report joins a queue of dozens. The light keeps flickering.",
			},
		},
	},
	"engineering": {
		{
			ID:    "engineering-log",
			Frame: "The reactor log shows a coolant shortfall someone has been hiding by editing the readouts.",
			A: state.ChoiceOption{
				Letter: "A", Text: "Restore the true figures. The crew deserves to know.",
				Impact:     alignment.Shift{LawChaos: 5, GoodEvil: 5},
				ResultText: "The real numbers glare red across the display.",
			},
			B: state.ChoiceOption{
				Letter: "B", Text: "Leave it. Panic would cost more than coolant.",
				Impact:     alignment.Shift{LawChaos: -5, GoodEvil: -5},
				ResultText: "The readouts stay green. The reactor knows better.",
			},
		},
	},
	"bridge": {
		{
			ID:    "bridge-beacon",
			Frame: "A faint beacon repeats on an old distress band. Answering would reveal the ship's position.",
			A: state.ChoiceOption{
				Letter: "A", Text: "Answer. Someone out there may need help.",
				Impact:     alignment.Shift{LawChaos: -5, GoodEvil: 10},
				ResultText: "You key the reply. The beacon pauses, then resumes, faster.",
			},
			B: state.ChoiceOption{
				Letter: "B", Text: "Stay silent. The colony comes first.",
				Impact:     alignment.Shift{LawChaos: 5, GoodEvil: -5},
				ResultText: "You mute the band. The silence feels heavier than the signal.",
			},
		},
	},
	"cargoHold": {
		{
			ID:    "cargo-seed-stock",
			Frame: "An opened crate of seed stock sits behind the others. Nobody has logged it.",
			A: state.ChoiceOption{
				Letter: "A", Text: "Report it to Briggs.",
				Impact:     alignment.Shift{LawChaos: 10},
				ResultText: "Briggs grunts and adds a line to his ledger. \"Knew it.\"",
			},
			B: state.ChoiceOption{
				Letter: "B", Text: "Pocket a packet for the hydroponics bay.",
				Impact:     alignment.Shift{LawChaos: -8, GoodEvil: 5},
				ResultText: "The packet rattles in your pocket. Someone will grow something with it.",
				Grants:     []string{"Seed Packet"},
			},
		},
	},
}

var inspectChoices = map[string]state.BinaryChoice{
	"bridge/console": {
		ID: "console-01",
		Frame: "The console wakes. A corrupted log entry scrolls past: \"To those who follow. " +
			"Do you trust the course we plotted, or the void itself?\"",
		A: state.ChoiceOption{
			Letter: "A", Text: "Trust the plotted course.",
			Impact:     alignment.Shift{LawChaos: 5},
			ResultText: "The console accepts your answer. Another entry unfolds.",
			Next:       "console-02-course",
		},
		B: state.ChoiceOption{
			Letter: "B", Text: "Trust the void.",
			Impact:     alignment.Shift{LawChaos: -5},
			ResultText: "The console pulses. Another entry unfolds.",
			Next:       "console-02-void",
		},
	},
	"cryoBay/pods": {
		ID: "pods-01",
		Frame: "A note is taped to a damaged pod: \"Wake me and I use your air. Let me sleep " +
			"and I may never wake.\"",
		A: state.ChoiceOption{
			Letter: "A", Text: "Wake the sleeper.",
			Impact:     alignment.Shift{GoodEvil: 8},
			ResultText: "The pod cycles. Somewhere below the frost, a heartbeat quickens.",
		},
		B: state.ChoiceOption{
			Letter: "B", Text: "Let them sleep for now.",
			Impact:     alignment.Shift{LawChaos: 3, GoodEvil: -3},
			ResultText: "You smooth the note flat against the glass and walk on.",
		},
	},
}

var followUps = map[string]state.BinaryChoice{
	"console-02-course": {
		ID:    "console-02-course",
		Frame: "\"If you met a stranger in the void, would you share your coordinates?\"",
		A: state.ChoiceOption{
			Letter: "A", Text: "Share them freely.",
			Impact:     alignment.Shift{GoodEvil: 7},
			ResultText: "The console unlocks a set of coordinates labelled SECTOR ALPHA.",
			Grants:     []string{"Sector Alpha Coordinates"},
		},
		B: state.ChoiceOption{
			Letter: "B", Text: "Keep them until trust is earned.",
			Impact:     alignment.Shift{LawChaos: 3, GoodEvil: -3},
			ResultText: "The console unlocks a set of coordinates labelled SECTOR BETA.",
			Grants:     []string{"Sector Beta Coordinates"},
		},
	},
	"console-02-void": {
		ID:    "console-02-void",
		Frame: "\"Would you rather follow the rules perfectly, or break them to save a life?\"",
		A: state.ChoiceOption{
			Letter: "A", Text: "Follow the rules.",
			Impact:     alignment.Shift{LawChaos: 7},
			ResultText: "The console grants you the captain's legacy protocols.",
			Grants:     []string{"Legacy Protocols"},
		},
		B: state.ChoiceOption{
			Letter: "B", Text: "Break them.",
			Impact:     alignment.Shift{LawChaos: -5, GoodEvil: 8},
			ResultText: "The console grants you the medic's override codes.",
			Grants:     []string{"Medic Override Codes"},
		},
	},
}
