package musicxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <work><work-title>Song</work-title></work>
  <identification><creator type="composer">Me</creator></identification>
  <part-list>
    <part-group number="1" type="start"><group-symbol>bracket</group-symbol></part-group>
    <score-part id="P1"><part-name>Flute</part-name>
      <midi-instrument id="P1-I1"><midi-channel>1</midi-channel><midi-program>74</midi-program></midi-instrument>
    </score-part>
    <part-group number="1" type="stop"/>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>2</divisions><key><fifths>-1</fifths></key><time><beats>3</beats><beat-type>4</beat-type></time><clef><sign>G</sign><line>2</line></clef></attributes>
      <note><pitch><step>C</step><alter>1</alter><octave>5</octave></pitch><duration>2</duration><voice>2</voice>
        <notations><slur type="start"/><ornaments><trill-mark/></ornaments></notations>
        <lyric number="1"><syllabic>begin</syllabic><text>la</text></lyric></note>
      <backup><duration>2</duration></backup>
      <bookmark id="x"/>
      <direction placement="below"><direction-type><words>dolce</words></direction-type><sound tempo="96"/></direction>
      <barline location="right"><bar-style>light-heavy</bar-style></barline>
    </measure>
    <measure number="2"><note><rest/><duration>6</duration></note></measure>
  </part>
</score-partwise>`

func TestDecodeKeepsEventOrder(t *testing.T) {
	assert := assert.New(t)

	s, err := Decode(strings.NewReader(doc))
	assert.Nil(err)
	assert.Equal("Song", s.WorkTitle)
	assert.Equal([]Creator{{Type: "composer", Text: "Me"}}, s.Identification.Creators)
	assert.Len(s.Parts, 1)
	assert.Len(s.Parts[0].Measures, 2)

	m := s.Parts[0].Measures[0]
	assert.Equal("1", m.Number)
	assert.Len(m.Events, 5)
	assert.IsType(&Attributes{}, m.Events[0])
	assert.IsType(&Note{}, m.Events[1])
	assert.IsType(&Backup{}, m.Events[2])
	assert.IsType(&Direction{}, m.Events[3])
	assert.IsType(&Barline{}, m.Events[4])

	attr := m.Events[0].(*Attributes)
	assert.Equal(2, attr.Divisions)
	assert.Equal(-1, *attr.Keys[0].Fifths)
	assert.Equal(Time{Beats: "3", BeatType: "4"}, attr.Times[0])

	n := m.Events[1].(*Note)
	assert.Equal(2, n.VoiceNumber())
	assert.Equal(1, n.StaffNumber())
	assert.Equal(1.0, *n.Pitch.Alter)
	assert.Nil(n.Rest)
	assert.Nil(n.Chord)
	assert.Len(n.Notation("slur"), 1)
	assert.Equal("start", n.Notation("slur")[0].Attr("type"))
	assert.Len(n.Notation("ornaments/trill-mark"), 1)
	text, ok := n.Lyrics[0].FindText("text")
	assert.True(ok)
	assert.Equal("la", text)
	assert.Equal("1", n.Lyrics[0].Attr("number"))

	d := m.Events[3].(*Direction)
	assert.Equal("below", d.Placement)
	assert.Equal("96", d.Sound.Tempo)
	words, _ := d.Types[0].FindText("words")
	assert.Equal("dolce", words)

	rest := s.Parts[0].Measures[1].Events[0].(*Note)
	assert.NotNil(rest.Rest)
	assert.Equal(6, *rest.Duration)
}

func TestPartListOrder(t *testing.T) {
	assert := assert.New(t)

	s, err := Decode(strings.NewReader(doc))
	assert.Nil(err)
	es := s.PartList.Entries
	assert.Len(es, 3)
	assert.Equal("start", es[0].Group.Type)
	assert.Equal("bracket", es[0].Group.Symbol)
	assert.Equal("Flute", es[1].Part.Name)
	assert.Equal(74, *es[1].Part.Midi[0].Program)
	assert.Nil(es[1].Part.Midi[0].Volume)
	assert.Equal("stop", es[2].Group.Type)
	assert.Len(s.PartList.ScoreParts(), 1)
}

func TestDecodeLatin1(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<score-partwise><work><work-title>Caf\xe9</work-title></work></score-partwise>"
	s, err := Decode(strings.NewReader(src))
	assert.Nil(t, err)
	assert.Equal(t, "Café", s.WorkTitle)
}

func TestDecodeRejectsTimewise(t *testing.T) {
	_, err := Decode(strings.NewReader("<score-timewise></score-timewise>"))
	assert.NotNil(t, err)
}

func mxl(t *testing.T, files map[string]string, order []string) []byte {
	var buf bytes.Buffer
	z := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := z.Create(name)
		assert.Nil(t, err)
		_, err = w.Write([]byte(files[name]))
		assert.Nil(t, err)
	}
	assert.Nil(t, z.Close())
	return buf.Bytes()
}

func TestLoadCompressed(t *testing.T) {
	assert := assert.New(t)

	data := mxl(t, map[string]string{
		"META-INF/container.xml": "<container/>",
		"song.xml":               doc,
	}, []string{"META-INF/container.xml", "song.xml"})

	s, err := Load("song.mxl", data)
	assert.Nil(err)
	assert.Equal("Song", s.WorkTitle)

	empty := mxl(t, map[string]string{"META-INF/container.xml": "<container/>"}, []string{"META-INF/container.xml"})
	_, err = Load("empty.mxl", empty)
	assert.NotNil(err)
}

func TestNodeFind(t *testing.T) {
	assert := assert.New(t)

	n := &Node{Children: []Node{
		{XMLName: xmlName("technical"), Children: []Node{{XMLName: xmlName("fingering"), Text: "3"}}},
		{XMLName: xmlName("technical"), Children: []Node{{XMLName: xmlName("up-bow")}}},
	}}
	assert.Len(n.FindAll("technical"), 2)
	assert.NotNil(n.Find("technical/up-bow"))
	assert.Nil(n.Find("ornaments/turn"))
	f, ok := n.FindText("technical/fingering")
	assert.True(ok)
	assert.Equal("3", f)
}

func xmlName(local string) xml.Name {
	return xml.Name{Local: local}
}
