package sml

import (
	"github.com/sigurn/crc16"
)

var x25 = crc16.MakeTable(crc16.CRC16_X_25)

// file frames messages with start sequence, padding and trailer
func file(msgs ...[]byte) []byte {
	f := []byte{
		0x1b, 0x1b, 0x1b, 0x1b, // escape
		0x01, 0x01, 0x01, 0x01, // version 1
	}
	for _, m := range msgs {
		f = append(f, m...)
	}
	pad := 4 - len(f)%4
	for i := 0; i < pad; i++ {
		f = append(f, 0x00)
	}
	f = append(f,
		0x1b, 0x1b, 0x1b, 0x1b, // escape
		0x1a, byte(pad), // end of file, padding count
	)
	crc := crc16.Checksum(f, x25)
	return append(f, byte(crc>>8), byte(crc))
}

func message(txID byte, body ...byte) []byte {
	m := []byte{
		0x76,                         // message, list of 6
		0x05, 0x00, 0x4a, 0x3b, txID, // transactionId
		0x62, 0x00, // groupNo
		0x62, 0x00, // abortOnError
	}
	m = append(m, body...)
	crc := crc16.Checksum(m, x25)
	return append(m,
		0x63, byte(crc>>8), byte(crc), // crc16
		0x00, // endOfSmlMsg
	)
}

var openResponse = []byte{
	0x72,             // message body, list of 2
	0x63, 0x01, 0x01, // OpenResponse
	0x76,                         // list of 6
	0x01,                         // codepage
	0x01,                         // clientId
	0x05, 0x04, 0x03, 0x02, 0x01, // reqFileId
	0x0b, 0x0a, 0x01, 0x45, 0x4d, 0x48, 0x00, 0x00, 0x7a, 0xc5, 0x4a, // serverId
	0x01, // refTime
	0x01, // smlVersion
}

var closeResponse = []byte{
	0x72,             // message body, list of 2
	0x63, 0x02, 0x01, // CloseResponse
	0x71, // list of 1
	0x01, // globalSignature
}

// getListResponse wraps at most 15 encoded value list entries
func getListResponse(entries ...[]byte) []byte {
	b := []byte{
		0x72,             // message body, list of 2
		0x63, 0x07, 0x01, // GetListResponse
		0x77,                                                             // list of 7
		0x01,                                                             // clientId
		0x0b, 0x0a, 0x01, 0x45, 0x4d, 0x48, 0x00, 0x00, 0x7a, 0xc5, 0x4a, // serverId
		0x07, 0x01, 0x00, 0x62, 0x0a, 0xff, 0xff, // listName
		0x72, 0x62, 0x01, 0x65, 0x00, 0x1c, 0x9e, 0x6d, // actSensorTime, secIndex
		0x70 | byte(len(entries)), // valList
	}
	for _, e := range entries {
		b = append(b, e...)
	}
	return append(b,
		0x01, // listSignature
		0x01, // actGatewayTime
	)
}

func obis(a, b, c, d, e, f byte) []byte {
	return []byte{a, b, c, d, e, f}
}

func entry(name []byte, unit Unit, scaler int8, value ...byte) []byte {
	e := []byte{
		0x77,                // list of 7
		byte(len(name) + 1), // objName
	}
	e = append(e, name...)
	e = append(e,
		0x01,             // status
		0x01,             // valTime
		0x62, byte(unit), // unit
		0x52, byte(scaler), // scaler
	)
	e = append(e, value...)
	return append(e, 0x01) // valueSignature
}

// meterFile is a single file as an electricity meter would send it
func meterFile(entries ...[]byte) []byte {
	return file(
		message(1, openResponse...),
		message(2, getListResponse(entries...)...),
		message(3, closeResponse...),
	)
}
