package sml

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type Option func(*Decoder)

// WithLogger sets the logger entry errors and skipped messages are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Decoder) {
		d.log = l
	}
}

// WithMaxDepth limits list nesting when skipping elements.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		d.maxDepth = n
	}
}

// WithEntryHandler calls fn for every value list entry with a valid object
// name, as soon as it is decoded.
func WithEntryHandler(fn func(Entry)) Option {
	return func(d *Decoder) {
		d.onEntry = fn
	}
}

// WithFileHandler calls fn with the entries of each SML file that was
// decoded up to its close response. Entries of failed files are dropped.
func WithFileHandler(fn func([]Entry)) Option {
	return func(d *Decoder) {
		d.onFile = fn
	}
}

// Decoder holds the state of a decode pass over one buffer, which may
// contain several SML files. It is not safe for concurrent use, but
// separate decoders are independent.
type Decoder struct {
	buf      *Buffer
	reading  Reading
	log      logrus.FieldLogger
	maxDepth int
	onEntry  func(Entry)
	onFile   func([]Entry)
	entries  []Entry
}

func NewDecoder(data []byte, opts ...Option) *Decoder {
	d := &Decoder{
		buf:      NewBuffer(data),
		log:      logrus.StandardLogger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Unmarshal decodes all SML files in data. The returned Reading holds
// whatever was extracted before an error, if any.
func Unmarshal(data []byte, opts ...Option) (*Reading, error) {
	d := NewDecoder(data, opts...)
	err := d.Decode()
	r := d.Reading()
	return &r, err
}

// Reading returns the values extracted by the last call to Decode.
func (d *Decoder) Reading() Reading {
	return d.reading
}

// Pos returns the cursor position in the buffer.
func (d *Decoder) Pos() int {
	return d.buf.Pos()
}

// Decode runs a decode pass from the start of the buffer. The Reading is
// reset first and keeps partial results when an error aborts the pass.
func (d *Decoder) Decode() error {
	d.reading.Reset()
	d.buf.pos = 0
	if d.buf.data == nil {
		return ErrMemory
	}
	if d.buf.Len() < minFileLen {
		return fmt.Errorf("%d bytes: %w", d.buf.Len(), ErrIncomplete)
	}

	for d.buf.Remaining() > 0 {
		d.log.WithField("pos", d.buf.Pos()).Debug("parsing SML file")

		if err := d.buf.expectRepeated(escapeChar, 4, ErrEscapeSequence); err != nil {
			return err
		}
		if err := d.buf.expectRepeated(version1Char, 4, ErrVersion); err != nil {
			return err
		}

		err := d.parseFile()

		// Padding and trailer are passed over even after an error so the
		// cursor always ends up at the same place for a given file
		d.buf.pos += 4 - d.buf.pos%4
		d.buf.pos += trailerLen

		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) parseFile() error {
	d.entries = nil
	for {
		tag, err := d.parseMessage()
		if err != nil {
			return err
		}
		if tag == CloseResponse {
			if d.onFile != nil {
				d.onFile(d.entries)
			}
			return nil
		}
	}
}

func (d *Decoder) skip(n int) error {
	for i := 0; i < n; i++ {
		if err := d.buf.Skip(d.maxDepth); err != nil {
			return err
		}
	}
	return nil
}

// expectList reads a list header that must declare exactly n elements.
func (d *Decoder) expectList(n int, what string) error {
	pos := d.buf.Pos()
	h, err := d.buf.DecodeLength()
	if err != nil {
		return err
	}
	if !h.IsList() || h.Length != n {
		return fmt.Errorf("%s at 0x%x: TL 0x%02x with %d elements, want list of %d: %w", what, pos, h.TL, h.Length, n, ErrFormat)
	}
	return nil
}

// parseMessage decodes one message and returns the tag of its body.
func (d *Decoder) parseMessage() (MessageTag, error) {
	if err := d.expectList(messageLen, "message"); err != nil {
		return 0, err
	}

	// transactionId, groupNo, abortOnError
	if err := d.skip(3); err != nil {
		return 0, err
	}

	tag, err := d.parseMessageBody()
	if err != nil {
		return tag, err
	}

	// crc16
	if err := d.skip(1); err != nil {
		return tag, err
	}

	eom, err := d.buf.readByte()
	if err != nil {
		return tag, err
	}
	if eom != endOfMessage {
		return tag, fmt.Errorf("got 0x%02x at 0x%x, want end of message: %w", eom, d.buf.Pos()-1, ErrFormat)
	}
	return tag, nil
}

func (d *Decoder) parseMessageBody() (MessageTag, error) {
	if err := d.expectList(messageBodyLen, "message body"); err != nil {
		return 0, err
	}

	raw, err := d.buf.Unsigned()
	if err != nil {
		return 0, fmt.Errorf("message body tag: %w", err)
	}
	tag := MessageTag(raw)

	switch tag {
	case OpenResponse, CloseResponse:
		return tag, d.skip(1)
	case GetListResponse:
		return tag, d.parseGetListResponse()
	default:
		d.log.WithField("tag", tag).Debug("skipping message body")
		return tag, d.skip(1)
	}
}

func (d *Decoder) parseGetListResponse() error {
	if err := d.expectList(getListResLen, "GetList response"); err != nil {
		return err
	}

	// clientId, serverId, listName, actSensorTime
	if err := d.skip(4); err != nil {
		return err
	}

	pos := d.buf.Pos()
	h, err := d.buf.DecodeLength()
	if err != nil {
		return err
	}
	switch {
	case h.IsList():
	case h.TL == optional:
		h.Length = 0
	default:
		return fmt.Errorf("value list at 0x%x: TL 0x%02x is not a list: %w", pos, h.TL, ErrFormat)
	}

	for i := 0; i < h.Length; i++ {
		if err := d.parseListEntry(i); err != nil {
			return err
		}
	}

	// listSignature, actGatewayTime
	return d.skip(2)
}

// parseListEntry extracts one value list entry. A malformed entry is
// reported and passed over; only an entry that cannot be skipped fails.
func (d *Decoder) parseListEntry(index int) error {
	start := d.buf.Pos()
	probe := *d.buf
	if err := probe.Skip(d.maxDepth); err != nil {
		return err
	}
	end := probe.Pos()

	err := d.parseEntry()
	if err == nil && d.buf.Pos() != end {
		err = fmt.Errorf("entry ends at 0x%x, list element at 0x%x: %w", d.buf.Pos(), end, ErrGeneric)
	}
	if err != nil {
		d.log.WithError(err).WithFields(logrus.Fields{
			"pos":   start,
			"entry": index,
		}).Warn("skipping value list entry")
		d.buf.pos = end
	}
	return nil
}

func (d *Decoder) parseEntry() error {
	if err := d.expectList(listEntryLen, "value list entry"); err != nil {
		return err
	}

	var name [objNameWireLen + 1]byte
	n, err := d.buf.OctetString(name[:])
	if err != nil {
		return fmt.Errorf("object name: %w", err)
	}

	// status, valTime
	if err := d.skip(2); err != nil {
		return err
	}

	if n != len(OBIS{}) {
		// unit, scaler, value, valueSignature
		return d.skip(4)
	}

	var e Entry
	copy(e.Name[:], name[:n])

	unit, err := d.buf.Unsigned()
	if err != nil {
		return fmt.Errorf("%s unit: %w", e.Name, err)
	}
	if unit <= 0xff {
		e.Unit = Unit(unit)
	}

	scaler, err := d.buf.Signed()
	if err != nil {
		return fmt.Errorf("%s scaler: %w", e.Name, err)
	}
	e.Scaler = int(scaler)

	if err := d.parseValue(&e); err != nil {
		return fmt.Errorf("%s value: %w", e.Name, err)
	}

	// valueSignature
	if err := d.skip(1); err != nil {
		return err
	}

	if e.Value.Kind != KindNone {
		d.emit(e)
	}
	return nil
}

func (d *Decoder) parseValue(e *Entry) error {
	tl, err := d.buf.peek()
	if err != nil {
		return err
	}

	switch {
	case tl == typeBool:
		v, err := d.buf.Bool()
		if err != nil {
			return err
		}
		e.Value = Value{Kind: KindBool, Bool: v}

	case tl&typeMask == typeOctetString:
		var str [32]byte
		n, err := d.buf.OctetString(str[:])
		if err != nil {
			return err
		}
		e.Value = Value{Kind: KindOctetString}
		if d.onEntry != nil || d.onFile != nil {
			e.Value.Bytes = append([]byte(nil), str[:n]...)
		}

	case tl&typeMask == typeInt:
		v, err := d.buf.Signed()
		if err != nil {
			return err
		}
		e.Value = Value{Kind: KindSigned, Signed: v}
		d.store(e)

	case tl&typeMask == typeUint:
		v, err := d.buf.Unsigned()
		if err != nil {
			return err
		}
		e.Value = Value{Kind: KindUnsigned, Unsigned: v}
		d.store(e)

	default:
		d.log.WithFields(logrus.Fields{
			"obis": e.Name,
			"tl":   fmt.Sprintf("0x%02x", tl),
		}).Debug("skipping value of unknown type")
		return d.skip(1)
	}
	return nil
}

func (d *Decoder) store(e *Entry) {
	key := e.Name.Key()
	if d.reading.Set(key, e.Unit, e.Scaler, e.Value.Int64()) {
		return
	}
	if slot, unit := Resolve(key); slot != SlotNone && unit != e.Unit {
		d.log.WithFields(logrus.Fields{
			"obis": e.Name,
			"unit": e.Unit,
			"want": unit,
		}).Debug("dropping value with unexpected unit")
	}
}

func (d *Decoder) emit(e Entry) {
	if d.onEntry != nil {
		d.onEntry(e)
	}
	if d.onFile != nil {
		d.entries = append(d.entries, e)
	}
}
