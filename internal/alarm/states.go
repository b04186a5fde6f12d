// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package alarm

// State is one of the 7 ISA-18.2 lifecycle states (spec §4.5). Each carries
// a fixed attribute tuple; these never change at runtime, only which State
// an Alarm currently points at changes.
type State int

const (
	NORM State = iota
	UNACK
	ACKED
	RTNUN
	SHLVD
	DSUPR
	OOSRV
)

func (s State) String() string {
	switch s {
	case NORM:
		return "NORM"
	case UNACK:
		return "UNACK"
	case ACKED:
		return "ACKED"
	case RTNUN:
		return "RTNUN"
	case SHLVD:
		return "SHLVD"
	case DSUPR:
		return "DSUPR"
	case OOSRV:
		return "OOSRV"
	default:
		return "UNKNOWN"
	}
}

// Attrs is the fixed attribute tuple bound to each State (spec §4.5),
// transcribed from the alarm_states table's columns plus the extra
// display flags the source's AlarmAttrs class carries.
type Attrs struct {
	Mnemonic          string
	ProcessCondition  string
	IsTriggered       bool
	AlarmStatus       string
	AnnunciateStatus  string
	AcknowledgeStatus string
	Audible           bool
	Color             bool
	Symbol            bool
	Blinking          bool
}

// attrTable holds the 7 fixed tuples, indexed by State.
var attrTable = map[State]Attrs{
	NORM: {
		Mnemonic: "NORM", ProcessCondition: "Normal", IsTriggered: false,
		AlarmStatus: "Not Active", AnnunciateStatus: "Not Annunciated",
		AcknowledgeStatus: "Acknowledged", Audible: false, Color: false, Symbol: false, Blinking: false,
	},
	UNACK: {
		Mnemonic: "UNACK", ProcessCondition: "Abnormal", IsTriggered: true,
		AlarmStatus: "Active", AnnunciateStatus: "Annunciated",
		AcknowledgeStatus: "Unacknowledged", Audible: true, Color: true, Symbol: true, Blinking: true,
	},
	ACKED: {
		Mnemonic: "ACKED", ProcessCondition: "Abnormal", IsTriggered: true,
		AlarmStatus: "Active", AnnunciateStatus: "Annunciated",
		AcknowledgeStatus: "Acknowledged", Audible: false, Color: true, Symbol: true, Blinking: false,
	},
	RTNUN: {
		Mnemonic: "RTNUN", ProcessCondition: "Normal", IsTriggered: false,
		AlarmStatus: "Not Active", AnnunciateStatus: "Annunciated",
		AcknowledgeStatus: "Unacknowledged", Audible: false, Color: true, Symbol: true, Blinking: false,
	},
	SHLVD: {
		Mnemonic: "SHLVD", ProcessCondition: "Normal", IsTriggered: false,
		AlarmStatus: "Not Active or Active", AnnunciateStatus: "Suppressed",
		AcknowledgeStatus: "Not Applicable", Audible: false, Color: false, Symbol: true, Blinking: false,
	},
	DSUPR: {
		Mnemonic: "DSUPR", ProcessCondition: "Normal", IsTriggered: false,
		AlarmStatus: "Not Active or Active", AnnunciateStatus: "Suppressed",
		AcknowledgeStatus: "Not Applicable", Audible: false, Color: false, Symbol: true, Blinking: false,
	},
	OOSRV: {
		Mnemonic: "OOSRV", ProcessCondition: "Normal", IsTriggered: false,
		AlarmStatus: "Not Active or Active", AnnunciateStatus: "Suppressed",
		AcknowledgeStatus: "Not Applicable", Audible: false, Color: false, Symbol: true, Blinking: false,
	},
}

// Attrs returns the fixed tuple for s.
func (s State) Attrs() Attrs {
	return attrTable[s]
}
