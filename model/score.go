package model

type MidiSettings struct {
	Channel int
	Program int
	Volume  float64
	Pan     float64
}

func DefaultMidiSettings() MidiSettings {
	return MidiSettings{Channel: -1, Program: -1, Volume: -1, Pan: -91}
}

type PartName struct {
	Name   string
	Abbrev string
}

type GroupData struct {
	Symbol  string
	Barline string
	Name    string
	Abbrev  string
}

// PartListNode is either a part (Part != nil) or a part group holding
// Children and its Group data.
type PartListNode struct {
	Part     *PartName
	Group    *GroupData
	Children []PartListNode
}

type ScoreMetadata struct {
	Filename   string
	Title      string
	Composer   string
	Voices     int
	UnitLength int
}
