package sml

import (
	"errors"
	"fmt"
)

type Err string

func (e Err) Error() string {
	return string(e)
}

const (
	ErrGeneric        = Err("generic decode error")
	ErrEscapeSequence = Err("escape sequence mismatch")
	ErrVersion        = Err("unsupported version")
	ErrIncomplete     = Err("incomplete data")
	ErrFormat         = Err("format error")
	ErrMemory         = Err("missing buffer")
	ErrBufferTooSmall = Err("buffer too small")
)

// Code maps err onto the numeric error taxonomy of the decoder.
// A nil error is 0, anything not recognised is -1.
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrEscapeSequence):
		return -2
	case errors.Is(err, ErrVersion):
		return -3
	case errors.Is(err, ErrIncomplete):
		return -4
	case errors.Is(err, ErrFormat):
		return -5
	case errors.Is(err, ErrMemory):
		return -6
	case errors.Is(err, ErrBufferTooSmall):
		return -7
	}
	return -1
}

const (
	// Every file starts with four escape bytes followed by four version bytes
	escapeChar   uint8 = 0x1b
	version1Char uint8 = 0x01

	// End of file is announced by four escape bytes followed by this marker
	endOfFileChar uint8 = 0x1a

	// Escape + version at the start, escape + 0x1a + padding count + CRC at the end
	minFileLen = 16
	trailerLen = 8

	endOfMessage uint8 = 0x00
	optional     uint8 = 0x01

	typeOctetString uint8 = 0x00
	typeBool        uint8 = 0x42
	typeInt         uint8 = 0x50
	typeUint        uint8 = 0x60
	typeList        uint8 = 0x70

	// Bit 7 of a TL byte announces another TL byte, bits 4-6 the type
	// and bits 0-3 a nibble of the length
	tlMoreMask uint8 = 0x80
	typeMask   uint8 = 0x70
	lengthMask uint8 = 0x0f

	maxTLBytes = 8

	// Protocol mandated list lengths
	messageLen     = 6
	messageBodyLen = 2
	getListResLen  = 7
	listEntryLen   = 7

	// Object name element size on the wire, TL byte included
	objNameWireLen = 7

	DefaultMaxDepth = 16
)

// MessageTag identifies the payload of a message body.
type MessageTag uint32

const (
	OpenRequest             MessageTag = 0x00000100
	OpenResponse            MessageTag = 0x00000101
	CloseRequest            MessageTag = 0x00000200
	CloseResponse           MessageTag = 0x00000201
	GetProfilePackRequest   MessageTag = 0x00000300
	GetProfilePackResponse  MessageTag = 0x00000301
	GetProfileListRequest   MessageTag = 0x00000400
	GetProfileListResponse  MessageTag = 0x00000401
	GetProcParameterRequest MessageTag = 0x00000500
	GetProcParameterResp    MessageTag = 0x00000501
	SetProcParameterRequest MessageTag = 0x00000600
	SetProcParameterResp    MessageTag = 0x00000601
	GetListRequest          MessageTag = 0x00000700
	GetListResponse         MessageTag = 0x00000701
	GetCosemRequest         MessageTag = 0x00000800
	GetCosemResponse        MessageTag = 0x00000801
	SetCosemRequest         MessageTag = 0x00000900
	SetCosemResponse        MessageTag = 0x00000901
	ActionCosemRequest      MessageTag = 0x00000a00
	ActionCosemResponse     MessageTag = 0x00000a01
	AttentionResponse       MessageTag = 0x0000ff01
)

var messageTagNames = map[MessageTag]string{
	OpenRequest:             "OpenRequest",
	OpenResponse:            "OpenResponse",
	CloseRequest:            "CloseRequest",
	CloseResponse:           "CloseResponse",
	GetProfilePackRequest:   "GetProfilePackRequest",
	GetProfilePackResponse:  "GetProfilePackResponse",
	GetProfileListRequest:   "GetProfileListRequest",
	GetProfileListResponse:  "GetProfileListResponse",
	GetProcParameterRequest: "GetProcParameterRequest",
	GetProcParameterResp:    "GetProcParameterResponse",
	SetProcParameterRequest: "SetProcParameterRequest",
	SetProcParameterResp:    "SetProcParameterResponse",
	GetListRequest:          "GetListRequest",
	GetListResponse:         "GetListResponse",
	GetCosemRequest:         "GetCosemRequest",
	GetCosemResponse:        "GetCosemResponse",
	SetCosemRequest:         "SetCosemRequest",
	SetCosemResponse:        "SetCosemResponse",
	ActionCosemRequest:      "ActionCosemRequest",
	ActionCosemResponse:     "ActionCosemResponse",
	AttentionResponse:       "AttentionResponse",
}

func (t MessageTag) String() string {
	if name, ok := messageTagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageTag(0x%08x)", uint32(t))
}

// Header is a decoded TL field.
type Header struct {
	// TL is the first TL byte, kept for exact tag comparisons
	TL uint8
	// Type is the type class (bits 4-6 of the first TL byte)
	Type uint8
	// Length is the payload size in bytes, or the number of elements for lists
	// and the end of message marker
	Length int
	// Size is the number of TL bytes consumed
	Size int
}

func (h Header) IsList() bool {
	return h.Type == typeList
}
