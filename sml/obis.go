package sml

import "fmt"

// OBIS is a six part object identifier:
// media, channel, item, processing, classifier (tariff) and billing period.
type OBIS [6]byte

const (
	MediaElectricity uint8 = 1
	MediaGas         uint8 = 7
)

// Key packs media, item, processing and classifier into a lookup key.
// Channel and billing period are not part of it.
func (o OBIS) Key() uint32 {
	return ShortCode(o[0], o[2], o[3], o[4])
}

// String renders the code as A-B:C.D.E*F.
func (o OBIS) String() string {
	return fmt.Sprintf("%d-%d:%d.%d.%d*%d", o[0], o[1], o[2], o[3], o[4], o[5])
}

func ShortCode(a, c, d, e uint8) uint32 {
	return uint32(a)<<24 | uint32(c)<<16 | uint32(d)<<8 | uint32(e)
}

// Short codes as packed by ShortCode, 0xAACCDDEE.
const (
	ImportActiveEnergyTotal   uint32 = 0x01010800 // 1-0:1.8.0
	ImportActiveEnergyTariff1 uint32 = 0x01010801
	ImportActiveEnergyTariff2 uint32 = 0x01010802
	ImportActivePowerTotal    uint32 = 0x01010700
	ExportActiveEnergyTotal   uint32 = 0x01020800 // 1-0:2.8.0
	ExportActiveEnergyTariff1 uint32 = 0x01020801
	ExportActiveEnergyTariff2 uint32 = 0x01020802
	ImportReactiveEnergyTotal uint32 = 0x01030800
	ExportReactiveEnergyTotal uint32 = 0x01040800
	Frequency                 uint32 = 0x010e0700 // 1-0:14.7.0
	ActivePower               uint32 = 0x010f0700
	ActivePowerDelta          uint32 = 0x01100700 // 1-0:16.7.0
	L1Current                 uint32 = 0x011f0700 // 1-0:31.7.0
	L1Voltage                 uint32 = 0x01200700 // 1-0:32.7.0
	L2Current                 uint32 = 0x01330700 // 1-0:51.7.0
	L2Voltage                 uint32 = 0x01340700 // 1-0:52.7.0
	L3Current                 uint32 = 0x01470700 // 1-0:71.7.0
	L3Voltage                 uint32 = 0x01480700 // 1-0:72.7.0
	UL2UL1PhaseAngle          uint32 = 0x01510701 // 1-0:81.7.1
	UL3UL1PhaseAngle          uint32 = 0x01510702
	IL1UL1PhaseAngle          uint32 = 0x01510704
	IL2UL2PhaseAngle          uint32 = 0x0151070f
	IL3UL3PhaseAngle          uint32 = 0x0151071a
	Manufacturer              uint32 = 0x81c78203 // 129-x:199.130.3
)

// Slot is a field of the Reading.
type Slot int

const (
	SlotNone Slot = iota
	SlotEnergyImportActive
	SlotEnergyExportActive
	SlotFrequency
	SlotPowerActive
	SlotVoltageL1
	SlotVoltageL2
	SlotVoltageL3
	SlotCurrentL1
	SlotCurrentL2
	SlotCurrentL3
	SlotPhaseShiftL1
	SlotPhaseShiftL2
	SlotPhaseShiftL3
)

type target struct {
	slot Slot
	unit Unit
	// fallback values only fill a slot nothing has written yet
	fallback bool
}

var targets = map[uint32]target{
	ImportActiveEnergyTotal:   {slot: SlotEnergyImportActive, unit: UnitWattHour},
	ImportActiveEnergyTariff1: {slot: SlotEnergyImportActive, unit: UnitWattHour, fallback: true},
	ExportActiveEnergyTotal:   {slot: SlotEnergyExportActive, unit: UnitWattHour},
	ExportActiveEnergyTariff1: {slot: SlotEnergyExportActive, unit: UnitWattHour, fallback: true},
	Frequency:                 {slot: SlotFrequency, unit: UnitHertz},
	ActivePowerDelta:          {slot: SlotPowerActive, unit: UnitWatt},
	L1Voltage:                 {slot: SlotVoltageL1, unit: UnitVolt},
	L2Voltage:                 {slot: SlotVoltageL2, unit: UnitVolt},
	L3Voltage:                 {slot: SlotVoltageL3, unit: UnitVolt},
	L1Current:                 {slot: SlotCurrentL1, unit: UnitAmpere},
	L2Current:                 {slot: SlotCurrentL2, unit: UnitAmpere},
	L3Current:                 {slot: SlotCurrentL3, unit: UnitAmpere},
	IL1UL1PhaseAngle:          {slot: SlotPhaseShiftL1, unit: UnitDegree},
	IL2UL2PhaseAngle:          {slot: SlotPhaseShiftL2, unit: UnitDegree},
	IL3UL3PhaseAngle:          {slot: SlotPhaseShiftL3, unit: UnitDegree},
}

// Resolve returns the Reading slot fed by key and the unit a value must
// carry to be accepted. Unknown keys resolve to SlotNone.
func Resolve(key uint32) (Slot, Unit) {
	t, ok := targets[key]
	if !ok {
		return SlotNone, UnitNone
	}
	return t.slot, t.unit
}

var names = map[uint32]string{
	ImportActiveEnergyTotal:   "rSumImpAct",
	ImportActiveEnergyTariff1: "rSumImpActT1",
	ImportActiveEnergyTariff2: "rSumImpActT2",
	ExportActiveEnergyTotal:   "rSumExpAct",
	ExportActiveEnergyTariff1: "rSumExpActT1",
	ExportActiveEnergyTariff2: "rSumExpActT2",
	ImportReactiveEnergyTotal: "rSumImpReact",
	ExportReactiveEnergyTotal: "rSumExpReact",
	Frequency:                 "r",
	ActivePower:               "rAct",
	ActivePowerDelta:          "rActDelta",
	L1Current:                 "rL1",
	L1Voltage:                 "rL1",
	L2Current:                 "rL2",
	L2Voltage:                 "rL2",
	L3Current:                 "rL3",
	L3Voltage:                 "rL3",
	UL2UL1PhaseAngle:          "rUL2UL1",
	UL3UL1PhaseAngle:          "rUL3UL1",
	IL1UL1PhaseAngle:          "rIL1UL1",
	IL2UL2PhaseAngle:          "rIL2UL2",
	IL3UL3PhaseAngle:          "rIL3UL3",
	Manufacturer:              "rManufacturer",
}

// Name returns the short name of a known code, or A<a>B<b>C<c>D<d>E<e>F<f>.
func (o OBIS) Name() string {
	if n, ok := names[o.Key()]; ok {
		return n
	}
	return fmt.Sprintf("A%dB%dC%dD%dE%dF%d", o[0], o[1], o[2], o[3], o[4], o[5])
}
