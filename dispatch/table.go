package dispatch

// Command IDs for the default command table.
const (
	CmdStartStream uint8 = 0x01
	CmdStopStream  uint8 = 0x02
	CmdSetPeriod   uint8 = 0x03
	CmdGetPeriod   uint8 = 0x04
	CmdPing        uint8 = 0x05
	CmdGetSensors  uint8 = 0x06
)

type tableEntry struct {
	parser  Parser
	handler Handler
}

// Table is an opcode-to-(parser,handler) lookup; a zero Table (no
// Register calls) rejects every command.
type Table struct {
	entries map[uint8]tableEntry
}

// NewTable returns the reference command table (PING, GET_SENSORS,
// START_STREAM, STOP_STREAM, SET_PERIOD, GET_PERIOD).
func NewTable() *Table {
	t := &Table{entries: make(map[uint8]tableEntry)}
	t.Register(CmdPing, ParseNoArgs, HandlePing)
	t.Register(CmdGetSensors, ParseNoArgs, HandleGetSensors)
	t.Register(CmdStartStream, ParseSensorID, HandleStartStream)
	t.Register(CmdStopStream, ParseSensorID, HandleStopStream)
	t.Register(CmdSetPeriod, ParseSetPeriod, HandleSetPeriod)
	t.Register(CmdGetPeriod, ParseSensorID, HandleGetPeriod)
	return t
}

// Register adds or replaces the (parser, handler) pair for cmdID.
func (t *Table) Register(cmdID uint8, parser Parser, handler Handler) {
	t.entries[cmdID] = tableEntry{parser: parser, handler: handler}
}

func (t *Table) lookup(cmdID uint8) (tableEntry, bool) {
	e, ok := t.entries[cmdID]
	if !ok || e.parser == nil || e.handler == nil {
		return tableEntry{}, false
	}
	return e, true
}
