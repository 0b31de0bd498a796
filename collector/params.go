package collector

import "github.com/aerotechavionics/ehms/model"

// MuxSourceBus is the source-bus identifier stamped on parameters read
// from the multiplex bus (the remote-terminal address).
const MuxSourceBus = 0x05

type sourceKind uint8

const (
	srcSerial sourceKind = iota
	srcMux
)

// paramConfig maps one parameter to its bus source and scaling.
// Serial parameters carry an octal label and a primary/backup bus pair;
// mux parameters carry a sub-address and a word offset within the
// message. EngValue = raw*scale + offset.
type paramConfig struct {
	id      model.ParamID
	kind    sourceKind
	label   uint16
	primary uint8
	backup  uint8
	sub     uint8
	word    int
	scale   float32
	offset  float32
}

// paramTable is the static acquisition table, one row per parameter id
// in id order. Vibration and valve discretes arrive on the multiplex
// bus: sub-address 5 carries vibration words at offsets 0 (fan) and
// 1 (core); sub-address 6 carries the valve discretes.
var paramTable = [model.ParamCount]paramConfig{
	{id: model.ParamN1, kind: srcSerial, label: 0o310, primary: 0, backup: 1, scale: 0.1, offset: 0},
	{id: model.ParamN2, kind: srcSerial, label: 0o311, primary: 0, backup: 1, scale: 0.1, offset: 0},
	{id: model.ParamEGT, kind: srcSerial, label: 0o312, primary: 0, backup: 1, scale: 1.0, offset: 0},
	{id: model.ParamFF, kind: srcSerial, label: 0o313, primary: 0, backup: 1, scale: 0.1, offset: 0},
	{id: model.ParamOilTemp, kind: srcSerial, label: 0o314, primary: 0, backup: 1, scale: 0.5, offset: -40.0},
	{id: model.ParamOilPress, kind: srcSerial, label: 0o315, primary: 0, backup: 1, scale: 0.1, offset: 0},
	{id: model.ParamOilQty, kind: srcSerial, label: 0o316, primary: 0, backup: 1, scale: 0.5, offset: 0},
	{id: model.ParamVibFan, kind: srcMux, sub: 5, word: 0, scale: 0.001, offset: 0},
	{id: model.ParamVibCore, kind: srcMux, sub: 5, word: 1, scale: 0.001, offset: 0},
	{id: model.ParamEPR, kind: srcSerial, label: 0o321, primary: 0, backup: 1, scale: 0.001, offset: 0},
	{id: model.ParamITT, kind: srcSerial, label: 0o322, primary: 2, backup: 3, scale: 1.0, offset: 0},
	{id: model.ParamThrust, kind: srcSerial, label: 0o323, primary: 2, backup: 3, scale: 10.0, offset: 0},
	{id: model.ParamBleedPress, kind: srcSerial, label: 0o324, primary: 2, backup: 3, scale: 0.1, offset: 0},
	{id: model.ParamBleedTemp, kind: srcSerial, label: 0o325, primary: 2, backup: 3, scale: 0.5, offset: -40.0},
	{id: model.ParamStartValve, kind: srcMux, sub: 6, word: 0, scale: 1.0, offset: 0},
	{id: model.ParamFuelValve, kind: srcMux, sub: 6, word: 1, scale: 1.0, offset: 0},
}

// validateParamTable checks the static table invariants at init. A
// violation here is a Fatal condition.
func validateParamTable() error {
	for i, row := range paramTable {
		if int(row.id) != i {
			return model.ErrOutOfRange
		}
		switch row.kind {
		case srcSerial:
			if row.primary >= model.SerialBusCount || row.backup >= model.SerialBusCount {
				return model.ErrOutOfRange
			}
			if row.scale == 0 {
				return model.ErrOutOfRange
			}
		case srcMux:
			if row.word < 0 || row.word >= 32 {
				return model.ErrOutOfRange
			}
		}
	}
	return nil
}

// SerialLabel exposes the serial label of a parameter for scenario
// drivers; ok is false for mux-sourced parameters.
func SerialLabel(p model.ParamID) (label uint16, primary, backup uint8, ok bool) {
	row := paramTable[p]
	if row.kind != srcSerial {
		return 0, 0, 0, false
	}
	return row.label, row.primary, row.backup, true
}

// MuxWord exposes the mux sub-address and word offset of a parameter;
// ok is false for serial-sourced parameters.
func MuxWord(p model.ParamID) (sub uint8, word int, ok bool) {
	row := paramTable[p]
	if row.kind != srcMux {
		return 0, 0, false
	}
	return row.sub, row.word, true
}

// Scaling exposes the scale and offset of a parameter row.
func Scaling(p model.ParamID) (scale, offset float32) {
	return paramTable[p].scale, paramTable[p].offset
}
