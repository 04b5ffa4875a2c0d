package sml

import "math"

// Reading holds the electricity values extracted from one decode pass.
// A nil field was not reported.
type Reading struct {
	// EnergyImportActive is the accumulated energy drawn from the grid (in Wh)
	EnergyImportActive *uint32 `json:"energy_import_active_Wh,omitempty"`
	// EnergyExportActive is the accumulated energy exported to the grid (in Wh)
	EnergyExportActive *uint32 `json:"energy_export_active_Wh,omitempty"`

	Frequency   *float64 `json:"frequency_Hz,omitempty"`
	PowerActive *float64 `json:"power_active_W,omitempty"`

	VoltageL1 *float64 `json:"voltage_l1_V,omitempty"`
	VoltageL2 *float64 `json:"voltage_l2_V,omitempty"`
	VoltageL3 *float64 `json:"voltage_l3_V,omitempty"`

	CurrentL1 *float64 `json:"current_l1_A,omitempty"`
	CurrentL2 *float64 `json:"current_l2_A,omitempty"`
	CurrentL3 *float64 `json:"current_l3_A,omitempty"`

	// Phase angle between current and voltage of each phase (in degrees)
	PhaseShiftL1 *int16 `json:"phase_shift_l1_deg,omitempty"`
	PhaseShiftL2 *int16 `json:"phase_shift_l2_deg,omitempty"`
	PhaseShiftL3 *int16 `json:"phase_shift_l3_deg,omitempty"`
}

// Reset marks every field as not reported.
func (r *Reading) Reset() {
	*r = Reading{}
}

// Empty reports whether no field was set.
func (r *Reading) Empty() bool {
	return *r == Reading{}
}

// Set stores raw scaled by scaler in the slot resolved from key, provided
// unit matches the unit the slot expects. It reports whether the Reading
// changed.
func (r *Reading) Set(key uint32, unit Unit, scaler int, raw int64) bool {
	t, ok := targets[key]
	if !ok || t.unit != unit {
		return false
	}
	if t.fallback && r.isSet(t.slot) {
		return false
	}

	switch t.slot {
	case SlotEnergyImportActive:
		return setUint32(&r.EnergyImportActive, ScaleInt(raw, scaler))
	case SlotEnergyExportActive:
		return setUint32(&r.EnergyExportActive, ScaleInt(raw, scaler))
	case SlotPhaseShiftL1:
		return setInt16(&r.PhaseShiftL1, ScaleInt(raw, scaler))
	case SlotPhaseShiftL2:
		return setInt16(&r.PhaseShiftL2, ScaleInt(raw, scaler))
	case SlotPhaseShiftL3:
		return setInt16(&r.PhaseShiftL3, ScaleInt(raw, scaler))
	}

	f := r.float(t.slot)
	if f == nil {
		return false
	}
	v := ScaleFloat(raw, scaler)
	*f = &v
	return true
}

func (r *Reading) float(s Slot) **float64 {
	switch s {
	case SlotFrequency:
		return &r.Frequency
	case SlotPowerActive:
		return &r.PowerActive
	case SlotVoltageL1:
		return &r.VoltageL1
	case SlotVoltageL2:
		return &r.VoltageL2
	case SlotVoltageL3:
		return &r.VoltageL3
	case SlotCurrentL1:
		return &r.CurrentL1
	case SlotCurrentL2:
		return &r.CurrentL2
	case SlotCurrentL3:
		return &r.CurrentL3
	}
	return nil
}

func (r *Reading) isSet(s Slot) bool {
	switch s {
	case SlotEnergyImportActive:
		return r.EnergyImportActive != nil
	case SlotEnergyExportActive:
		return r.EnergyExportActive != nil
	case SlotPhaseShiftL1:
		return r.PhaseShiftL1 != nil
	case SlotPhaseShiftL2:
		return r.PhaseShiftL2 != nil
	case SlotPhaseShiftL3:
		return r.PhaseShiftL3 != nil
	}
	if f := r.float(s); f != nil {
		return *f != nil
	}
	return false
}

// Values outside the range of the field are dropped.
func setUint32(dst **uint32, v int64) bool {
	if v < 0 || v > math.MaxUint32 {
		return false
	}
	u := uint32(v)
	*dst = &u
	return true
}

func setInt16(dst **int16, v int64) bool {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return false
	}
	i := int16(v)
	*dst = &i
	return true
}
