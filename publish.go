package main

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"lib.hemtjan.st/client"
	"lib.hemtjan.st/device"
	"lib.hemtjan.st/feature"

	"hemtjan.st/kraft-sml/internal/config"
	"hemtjan.st/kraft-sml/sml"
)

const (
	// Re-use currentPower from hemtjanst. SML meters report the balance, so
	// this goes negative while exporting to the grid.
	currentPower   = string(feature.CurrentPower)
	energyUsed     = string(feature.EnergyUsed)
	energyProduced = "energyProduced"
	frequency      = "frequency"
	phaseCurrent   = "phase%dCurrent"
	phaseVoltage   = "phase%dVoltage"
	phaseAngle     = "phase%dAngle"
)

// featureValues maps the fields present in r onto hemtjanst feature values.
func featureValues(r *sml.Reading) map[string]string {
	v := map[string]string{}

	if r.PowerActive != nil {
		// Watts
		v[currentPower] = fmt.Sprintf("%.0f", *r.PowerActive)
	}
	if r.EnergyImportActive != nil {
		// Convert to float and divide by 1000 to get kWh
		v[energyUsed] = fmt.Sprintf("%.3f", float64(*r.EnergyImportActive)/1000)
	}
	if r.EnergyExportActive != nil {
		v[energyProduced] = fmt.Sprintf("%.3f", float64(*r.EnergyExportActive)/1000)
	}
	if r.Frequency != nil {
		v[frequency] = fmt.Sprintf("%.2f", *r.Frequency)
	}

	phases := []struct {
		voltage, current *float64
		angle            *int16
	}{
		{r.VoltageL1, r.CurrentL1, r.PhaseShiftL1},
		{r.VoltageL2, r.CurrentL2, r.PhaseShiftL2},
		{r.VoltageL3, r.CurrentL3, r.PhaseShiftL3},
	}
	for i, ph := range phases {
		idx := i + 1
		if ph.voltage != nil {
			v[fmt.Sprintf(phaseVoltage, idx)] = fmt.Sprintf("%.1f", *ph.voltage)
		}
		if ph.current != nil {
			v[fmt.Sprintf(phaseCurrent, idx)] = fmt.Sprintf("%.3f", *ph.current)
		}
		if ph.angle != nil {
			v[fmt.Sprintf(phaseAngle, idx)] = fmt.Sprintf("%d", *ph.angle)
		}
	}
	return v
}

// deviceInfo describes the hemtjanst device announcing the given features.
// manufacturer is what the meter reported about itself, if anything; the
// config file wins when it names one.
func deviceInfo(cfg config.DeviceConfig, values map[string]string, manufacturer string) *device.Info {
	info := &device.Info{
		Topic:        cfg.Topic,
		Name:         cfg.Name,
		Manufacturer: cfg.Manufacturer,
		Model:        cfg.Model,
		SerialNumber: cfg.SerialNumber,
		Features:     map[string]*feature.Info{},
		Type:         "energyMeter",
	}
	if info.Manufacturer == "" {
		info.Manufacturer = manufacturer
	}
	for name := range values {
		info.Features[name] = &feature.Info{}
	}
	return info
}

// publisher owns the hemtjanst device. The device is created once the first
// reading arrives, since only then is it known which features the meter
// supports.
type publisher struct {
	cfg          config.DeviceConfig
	newDevice    func(*device.Info) (client.Device, error)
	log          logrus.FieldLogger
	manufacturer string

	dev      client.Device
	features map[string]bool
}

// observe picks up meter identification from the raw entries.
func (p *publisher) observe(e sml.Entry) {
	if e.Name.Key() == sml.Manufacturer && e.Value.Kind == sml.KindOctetString {
		p.manufacturer = string(e.Value.Bytes)
	}
}

func (p *publisher) push(r *sml.Reading) error {
	values := featureValues(r)
	if len(values) == 0 {
		return nil
	}

	if p.dev == nil {
		info := deviceInfo(p.cfg, values, p.manufacturer)
		d, err := p.newDevice(info)
		if err != nil {
			return fmt.Errorf("creating device: %w", err)
		}
		p.dev = d
		p.features = map[string]bool{}
		for name := range info.Features {
			p.features[name] = true
		}
		p.log.WithFields(logrus.Fields{
			"topic":    info.Topic,
			"features": sortedKeys(p.features),
		}).Info("announced device")
	}

	for name, val := range values {
		if !p.features[name] {
			// Not announced with the first reading
			continue
		}
		if err := p.dev.Feature(name).Update(val); err != nil {
			p.log.WithError(err).WithField("feature", name).Warn("update failed")
		}
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
